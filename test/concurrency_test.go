package test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"slugbin/pkg/domain"
)

func TestConcurrentCreates(t *testing.T) {
	store := createTestStore(t)
	pasteSvc := createTestService(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	var failures int64
	seen := sync.Map{}

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			res, err := pasteSvc.Create(ctx, domain.CreateParams{
				Text: fmt.Sprintf("concurrent body %d", idx),
			})
			if err != nil {
				atomic.AddInt64(&failures, 1)
				return
			}
			if _, dup := seen.LoadOrStore(res.Slug, idx); dup {
				atomic.AddInt64(&failures, 1)
			}
		}(i)
	}
	wg.Wait()

	if failures != 0 {
		t.Errorf("failures = %d", failures)
	}
	entries, err := pasteSvc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 100 {
		t.Errorf("listed %d entries, want 100", len(entries))
	}
}

func TestConcurrentSameSlugWrites(t *testing.T) {
	store := createTestStore(t)
	pasteSvc := createTestService(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _ = pasteSvc.Create(ctx, domain.CreateParams{
				Slug: "contend",
				Text: fmt.Sprintf("writer %d", idx),
			})
		}(i)
	}
	wg.Wait()

	// Last writer wins; whichever version landed last must read back
	// intact, never interleaved.
	read, err := pasteSvc.Read(ctx, "contend", "")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var matched bool
	for i := 0; i < 50; i++ {
		if read.Text == fmt.Sprintf("writer %d", i) {
			matched = true
			break
		}
	}
	if !matched {
		t.Errorf("text = %q is not any writer's body", read.Text)
	}
}

func TestConcurrentReadDeleteRace(t *testing.T) {
	store := createTestStore(t)
	pasteSvc := createTestService(t, store)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("race%02d", i)
		if _, err := pasteSvc.Create(ctx, domain.CreateParams{Slug: id, Text: "racing"}); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("race%02d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = pasteSvc.Read(ctx, id, "")
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pasteSvc.Delete(ctx, id)
		}()
	}
	wg.Wait()

	// Every record is deleted regardless of interleaving.
	for i := 0; i < 20; i++ {
		if err := pasteSvc.Delete(ctx, fmt.Sprintf("race%02d", i)); err != nil {
			t.Errorf("final delete: %v", err)
		}
	}
}
