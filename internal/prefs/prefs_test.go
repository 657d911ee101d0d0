package prefs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"cvcrafter/internal/sections"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestSectionOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemory(), nil)

	if got := s.LoadSectionOrder(ctx, "p1"); !got.Equal(sections.Default()) {
		t.Fatalf("expected default order on miss, got %v", got)
	}

	order := sections.Reorder(sections.Default(), sections.Interests, sections.Summary)
	s.SaveSectionOrder(ctx, "p1", order)
	if got := s.LoadSectionOrder(ctx, "p1"); !got.Equal(order) {
		t.Fatalf("expected %v, got %v", order, got)
	}
	if got := s.LoadSectionOrder(ctx, "p2"); !got.Equal(sections.Default()) {
		t.Fatalf("profiles leaked: %v", got)
	}
}

func TestSectionOrderFallsBackOnGarbage(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := NewStore(kv, nil)
	for _, raw := range []string{"not json", `["summary"]`, `["summary","summary","experience","education","skills","languages"]`} {
		_ = kv.Set(ctx, SectionOrderKey("p"), raw)
		if got := s.LoadSectionOrder(ctx, "p"); !got.Equal(sections.Default()) {
			t.Fatalf("%q: expected default, got %v", raw, got)
		}
	}
}

func TestDarkMode(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := NewStore(kv, nil)

	if _, ok := s.LoadDarkMode(ctx, "p"); ok {
		t.Fatal("expected no preference")
	}
	s.SaveDarkMode(ctx, "p", true)
	if v, _, _ := kv.Get(ctx, ThemeModeKey("p")); v != "dark" {
		t.Fatalf("expected stored dark, got %q", v)
	}
	if dark, ok := s.LoadDarkMode(ctx, "p"); !ok || !dark {
		t.Fatalf("expected dark, got %v %v", dark, ok)
	}
	s.SaveDarkMode(ctx, "p", false)
	if dark, ok := s.LoadDarkMode(ctx, "p"); !ok || dark {
		t.Fatalf("expected light, got %v %v", dark, ok)
	}
	_ = kv.Set(ctx, ThemeModeKey("p"), "sepia")
	if _, ok := s.LoadDarkMode(ctx, "p"); ok {
		t.Fatal("unknown value accepted")
	}
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingKV{}, nil)
	s.SaveSectionOrder(ctx, "p", sections.Default())
	s.SaveDarkMode(ctx, "p", true)
	if got := s.LoadSectionOrder(ctx, "p"); !got.Equal(sections.Default()) {
		t.Fatalf("expected default, got %v", got)
	}
	if _, ok := s.LoadDarkMode(ctx, "p"); ok {
		t.Fatal("expected no preference on failure")
	}
}

type fakeRedis struct {
	values map[string]string
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	r := NewRedis(&fakeRedis{values: map[string]string{}})

	if _, ok, err := r.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := r.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := r.Get(ctx, "k"); v != "v" || !ok || err != nil {
		t.Fatalf("unexpected get result %q %v %v", v, ok, err)
	}
}
