package emotion

import (
	"context"
	"net/http"
	"testing"
	"time"
)

type memoryCache struct {
	items map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.items[key] = value
	m.sets++
	return nil
}

type countingClassifier struct {
	inner EmotionClassifier
	calls int
}

func (c *countingClassifier) Name() string { return c.inner.Name() }

func (c *countingClassifier) Classify(ctx context.Context, text string) Verdict {
	c.calls++
	return c.inner.Classify(ctx, text)
}

func TestLocalVerdict(t *testing.T) {
	c := NewLocalHeuristicClassifier(nil, nil)
	v := c.Classify(context.Background(), "I am really mad about this")
	name, ok := v.Dominant()
	if !ok || name != Anger {
		t.Fatalf("dominant=(%s,%v), want (anger,true)", name, ok)
	}
	if s, _ := v.Score(Anger); s != 0.42 {
		t.Fatalf("anger=%v, want 0.42", s)
	}
	if s, ok := v.Score(Joy); s != 0 || !ok {
		t.Fatalf("joy=(%v,%v), want (0,true)", s, ok)
	}

	neutral := c.Classify(context.Background(), "The product arrived on time")
	if name, ok := neutral.Dominant(); !ok || name != Neutral {
		t.Fatalf("dominant=(%s,%v), want (neutral,true)", name, ok)
	}
}

func TestRemoteVerdictNull(t *testing.T) {
	c := NewRemoteServiceClassifier(NewClient(ClientConfig{HTTP: errDoer{}}))
	v := c.Classify(context.Background(), "I am glad this happened")
	if _, ok := v.Dominant(); ok {
		t.Fatalf("expected no dominant emotion")
	}
	if _, ok := v.Score(Joy); ok {
		t.Fatalf("expected null joy score")
	}
}

func TestCachedClassifierServesRepeats(t *testing.T) {
	srv := newRemoteServer(t, http.StatusOK, `{"emotions":[{"emotion":"anger","score":0.8}]}`, nil)
	inner := &countingClassifier{inner: NewRemoteServiceClassifier(NewClient(ClientConfig{URL: srv.URL}))}
	cache := newMemoryCache()
	c := NewCachedClassifier(inner, cache, time.Minute, nil)

	for i := 0; i < 3; i++ {
		v := c.Classify(context.Background(), "I am really mad about this")
		if name, ok := v.Dominant(); !ok || name != Anger {
			t.Fatalf("round %d dominant=(%s,%v), want anger", i, name, ok)
		}
		if s, ok := v.Score(Anger); !ok || s != 0.8 {
			t.Fatalf("round %d anger=(%v,%v), want 0.8", i, s, ok)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls=%d, want 1", inner.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets=%d, want 1", cache.sets)
	}
}

func TestCachedClassifierSkipsNullVerdicts(t *testing.T) {
	inner := &countingClassifier{inner: NewRemoteServiceClassifier(NewClient(ClientConfig{HTTP: errDoer{}}))}
	cache := newMemoryCache()
	c := NewCachedClassifier(inner, cache, time.Minute, nil)
	c.Classify(context.Background(), "hello")
	c.Classify(context.Background(), "hello")
	if inner.calls != 2 {
		t.Fatalf("inner calls=%d, want 2", inner.calls)
	}
	if cache.sets != 0 {
		t.Fatalf("cache sets=%d, want 0", cache.sets)
	}
}

func TestCachedClassifierLocalRoundTrip(t *testing.T) {
	inner := &countingClassifier{inner: NewLocalHeuristicClassifier(nil, nil)}
	c := NewCachedClassifier(inner, newMemoryCache(), time.Minute, nil)
	first := c.Classify(context.Background(), "I am so sad about this")
	second := c.Classify(context.Background(), "I am so sad about this")
	if _, ok := second.(LocalVerdict); !ok {
		t.Fatalf("cached verdict type=%T, want LocalVerdict", second)
	}
	a, _ := first.Dominant()
	b, _ := second.Dominant()
	if a != b || a != Sadness {
		t.Fatalf("dominant first=%s second=%s, want sadness", a, b)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls=%d, want 1", inner.calls)
	}
}
