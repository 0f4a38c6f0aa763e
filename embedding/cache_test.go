package embedding

import (
	"context"
	"testing"
	"time"
)

type countingProvider struct {
	calls int
}

func (c *countingProvider) GetProviderType() string { return "counting" }

func (c *countingProvider) GetEmbedding(_ context.Context, text string) ([]float32, error) {
	c.calls++
	return []float32{float32(len(text))}, nil
}

func TestCachedProvider_Hits(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, 10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := p.GetEmbedding(ctx, "same text")
		if err != nil {
			t.Fatal(err)
		}
		if len(v) != 1 {
			t.Fatalf("vector = %v", v)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}

	if _, err := p.GetEmbedding(ctx, "different text"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2", inner.calls)
	}
}

func TestVectorCache_Eviction(t *testing.T) {
	c := newVectorCache(2, time.Minute)
	c.set("a", []float32{1})
	c.set("b", []float32{2})
	c.set("c", []float32{3}) // evicts a

	if _, ok := c.get("a"); ok {
		t.Error("oldest entry was not evicted")
	}
	if _, ok := c.get("b"); !ok {
		t.Error("entry b missing")
	}
	if _, ok := c.get("c"); !ok {
		t.Error("entry c missing")
	}
}

func TestVectorCache_TTL(t *testing.T) {
	c := newVectorCache(10, time.Nanosecond)
	c.set("k", []float32{1})
	time.Sleep(time.Millisecond)
	if _, ok := c.get("k"); ok {
		t.Error("expired entry served")
	}
}
