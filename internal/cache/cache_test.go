package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rsilvagit/go-jobboard/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), "redis://"+mr.Addr(), ttl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "q=go"); ok {
		t.Fatal("expected miss on empty cache")
	}

	posted := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	page := &model.ResultPage{
		Count: 3,
		Jobs:  []model.Job{{ID: "1", Title: "Go Dev", PostedAt: posted}},
	}
	if err := c.Set(ctx, "q=go", page); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get(ctx, "q=go")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Count != 3 || len(got.Jobs) != 1 || got.Jobs[0].Title != "Go Dev" || !got.Jobs[0].PostedAt.Equal(posted) {
		t.Errorf("cached page: %+v", got)
	}
}

func TestCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "q=go", &model.ResultPage{Count: 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get(ctx, "q=go"); ok {
		t.Error("entry should have expired")
	}
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Set(buildKey("q=go"), "not json")

	if _, ok := c.Get(context.Background(), "q=go"); ok {
		t.Error("corrupt entry should read as a miss")
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New(context.Background(), "not-a-url", time.Minute); err == nil {
		t.Error("expected error for invalid redis URL")
	}
}
