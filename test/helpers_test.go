package test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"slugbin/cfg"
	"slugbin/pkg/domain"
	"slugbin/svc/auth"
	"slugbin/svc/cache"
	"slugbin/svc/codec"
	"slugbin/svc/kv"
	"slugbin/svc/slug"
	"slugbin/svc/svc"
	"slugbin/svc/util"
)

var envLoadOnce sync.Once

func loadTestEnv() {
	envLoadOnce.Do(func() {
		paths := []string{
			".env.test",
			"../.env.test",
		}
		for _, p := range paths {
			if absPath, err := filepath.Abs(p); err == nil {
				if _, err := os.Stat(absPath); err == nil {
					if err := godotenv.Load(absPath); err == nil {
						break
					}
				}
			}
		}
		util.InitLog("error", false)
	})
}

func createTestConfig() *cfg.Cfg {
	loadTestEnv()
	return &cfg.Cfg{
		Port:            "0",
		Environment:     "test",
		LogLevel:        "error",
		APIKey:          cfg.NewSecret("integration-test-key"),
		StoreBackend:    "memory",
		DefaultTimezone: "America/Chicago",
		SlugLength:      6,
		MaxPasteSize:    1024 * 1024,
		LRUCacheSize:    1000,
		ListConcurrency: 8,
		ContextTimeout:  5 * time.Second,
		RateLimit:       cfg.RateLimitCfg{RPM: 100000, Burst: 10000},
	}
}

func createTestStore(t *testing.T) kv.Store {
	t.Helper()
	return kv.NewMemory()
}

func createBoltStore(t *testing.T) kv.Store {
	t.Helper()
	store, err := kv.OpenBolt(filepath.Join(t.TempDir(), "slugbin-test.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestService(t *testing.T, store kv.Store) *svc.Paste {
	t.Helper()
	c := createTestConfig()
	lru, err := cache.NewLRU(c.LRUCacheSize)
	if err != nil {
		t.Fatalf("create lru: %v", err)
	}
	guard := auth.NewGuard(c.APIKey.Value())
	return svc.NewPaste(store, lru, guard, slug.New(c.SlugLength), c)
}

// plantExpired writes a record whose expiry is already behind us,
// straight past the service layer so the validation there cannot
// refuse it.
func plantExpired(t *testing.T, store kv.Store, id string) {
	t.Helper()
	past := time.Now().UTC().Add(-time.Minute)
	rec := &domain.PasteRecord{
		Slug: id,
		Text: "already gone",
		Metadata: domain.Metadata{
			CreatedAt: past.Add(-time.Hour),
			ExpiresAt: &past,
		},
	}
	data, err := codec.Encode(rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), id, data, kv.PutOptions{}); err != nil {
		t.Fatal(err)
	}
}
