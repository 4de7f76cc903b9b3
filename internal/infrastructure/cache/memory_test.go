package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/analoghub/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
		want  interface{}
	}{
		{
			name:  "store and retrieve string",
			key:   "refresh_token:1",
			value: "token-value",
			want:  "token-value",
		},
		{
			name:  "numbers come back as float64",
			key:   "count",
			value: 3,
			want:  float64(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, time.Minute); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}

	t.Run("structs come back as maps", func(t *testing.T) {
		value := struct {
			UserID string `json:"user_id"`
		}{UserID: "u1"}
		if err := cache.Set(ctx, "claims", value, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := cache.Get(ctx, "claims")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		m, ok := got.(map[string]interface{})
		if !ok || m["user_id"] != "u1" {
			t.Errorf("Get() = %#v, want map with user_id u1", got)
		}
	})
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "short", "value", time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after expiry error = %v, want %v", err, domain.ErrCacheMiss)
	}
	if exists, _ := cache.Exists(ctx, "short"); exists {
		t.Error("Exists() = true, want false after expiry")
	}

	cache.purge(time.Now())
	if n := cache.Len(); n != 0 {
		t.Errorf("Len() = %d after purge, want 0", n)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "revoked", true, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if exists, _ := cache.Exists(ctx, "revoked"); !exists {
		t.Fatal("Exists() = false, want true after Set")
	}

	if err := cache.Delete(ctx, "revoked"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, "revoked"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
	if err := cache.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := string(rune('a' + id))
			if err := cache.Set(ctx, key, id, time.Minute); err != nil {
				t.Errorf("concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n := cache.Len(); n != 10 {
		t.Errorf("Len() = %d, want 10", n)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache()
	cache.Close()
	cache.Close()
}
