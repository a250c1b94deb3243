package test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"slugbin/pkg/domain"
	"slugbin/svc/expiry"
)

func TestFullLifecycleAgainstBolt(t *testing.T) {
	store := createBoltStore(t)
	pasteSvc := createTestService(t, store)
	ctx := context.Background()

	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}
	future := time.Now().In(loc).Add(2 * time.Hour)

	res, err := pasteSvc.Create(ctx, domain.CreateParams{
		Text:       "lifecycle body",
		Expiration: expiry.FormatDisplay(future, loc),
		Password:   "hunter2",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.ExpirationInSeconds == nil || *res.ExpirationInSeconds <= 0 {
		t.Fatalf("expirationInSeconds = %v", res.ExpirationInSeconds)
	}
	if res.FormattedExpiration == nil {
		t.Fatal("formattedExpiration missing")
	}

	// Wrong and missing credentials stay locked out.
	if _, err := pasteSvc.Read(ctx, res.Slug, ""); errors.Cause(err) != domain.ErrUnauthorized {
		t.Errorf("missing credential err = %v", err)
	}
	if _, err := pasteSvc.Read(ctx, res.Slug, "wrong"); errors.Cause(err) != domain.ErrUnauthorized {
		t.Errorf("wrong credential err = %v", err)
	}

	read, err := pasteSvc.Read(ctx, res.Slug, "hunter2")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if read.Text != "lifecycle body" {
		t.Errorf("text = %q", read.Text)
	}
	if read.SecondsRemaining == nil || *read.SecondsRemaining <= 0 {
		t.Errorf("secondsRemaining = %v", read.SecondsRemaining)
	}

	entries, err := pasteSvc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Slug != res.Slug {
		t.Errorf("entries = %+v", entries)
	}
	if !entries[0].Metadata.Protected() {
		t.Error("list lost password metadata")
	}

	if err := pasteSvc.Delete(ctx, res.Slug); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := pasteSvc.Read(ctx, res.Slug, "hunter2"); errors.Cause(err) != domain.ErrPasteNotFound {
		t.Errorf("post-delete err = %v", err)
	}
	if err := pasteSvc.Delete(ctx, res.Slug); err != nil {
		t.Errorf("repeat delete err = %v", err)
	}
}

func TestExpiredRecordLifecycle(t *testing.T) {
	store := createBoltStore(t)
	pasteSvc := createTestService(t, store)
	ctx := context.Background()

	plantExpired(t, store, "stale1")

	if _, err := pasteSvc.Read(ctx, "stale1", ""); errors.Cause(err) != domain.ErrPasteExpired {
		t.Fatalf("first read err = %v", err)
	}
	// The expired read reaped the record from the store.
	if _, err := store.Get(ctx, "stale1"); err == nil {
		t.Error("expired record survived the reap")
	}
	if _, err := pasteSvc.Read(ctx, "stale1", ""); errors.Cause(err) != domain.ErrPasteNotFound {
		t.Errorf("second read err = %v", err)
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	store := createBoltStore(t)
	pasteSvc := createTestService(t, store)
	ctx := context.Background()

	res, err := pasteSvc.Create(ctx, domain.CreateParams{Text: "durable", Slug: "keepme"})
	if err != nil {
		t.Fatal(err)
	}

	// A fresh service over the same store still sees the record. The
	// LRU is empty so this read must come from bolt itself.
	second := createTestService(t, store)
	read, err := second.Read(ctx, res.Slug, "")
	if err != nil {
		t.Fatalf("read after restart: %v", err)
	}
	if read.Text != "durable" {
		t.Errorf("text = %q", read.Text)
	}
}
