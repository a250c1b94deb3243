package cache

import (
	"fmt"
	"testing"
	"time"

	"slugbin/pkg/domain"
)

func rec(slug string, expiresAt *time.Time) *domain.PasteRecord {
	return &domain.PasteRecord{
		Slug:     slug,
		Text:     "body",
		Metadata: domain.Metadata{CreatedAt: time.Now().UTC(), ExpiresAt: expiresAt},
	}
}

func TestSetGetDelete(t *testing.T) {
	l, err := NewLRU(10)
	if err != nil {
		t.Fatal(err)
	}
	l.Set(rec("abc", nil))
	if got := l.Get("abc"); got == nil || got.Slug != "abc" {
		t.Fatalf("got = %+v", got)
	}
	l.Delete("abc")
	if l.Get("abc") != nil {
		t.Error("record survived delete")
	}
	if l.Get("never") != nil {
		t.Error("hit for absent slug")
	}
}

func TestExpiredRecordNotCached(t *testing.T) {
	l, err := NewLRU(10)
	if err != nil {
		t.Fatal(err)
	}
	past := time.Now().UTC().Add(-time.Minute)
	l.Set(rec("stale", &past))
	if l.Get("stale") != nil {
		t.Error("expired record served from cache")
	}
}

func TestEntryTTLCappedByExpiry(t *testing.T) {
	l, err := NewLRU(10)
	if err != nil {
		t.Fatal(err)
	}
	soon := time.Now().UTC().Add(30 * time.Millisecond)
	l.Set(rec("soon", &soon))
	if l.Get("soon") == nil {
		t.Fatal("record missing before expiry")
	}
	time.Sleep(50 * time.Millisecond)
	if l.Get("soon") != nil {
		t.Error("record served past its expiry")
	}
}

func TestEviction(t *testing.T) {
	l, err := NewLRU(2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		l.Set(rec(fmt.Sprintf("slug%d", i), nil))
	}
	if l.Get("slug0") != nil {
		t.Error("oldest entry not evicted")
	}
	if l.Get("slug2") == nil {
		t.Error("newest entry evicted")
	}
}

func TestSizeValidation(t *testing.T) {
	if _, err := NewLRU(0); err == nil {
		t.Error("zero size accepted")
	}
	if _, err := NewLRU(-1); err == nil {
		t.Error("negative size accepted")
	}
	if _, err := NewLRU(100001); err == nil {
		t.Error("oversized cache accepted")
	}
}
