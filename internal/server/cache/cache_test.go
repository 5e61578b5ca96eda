package cache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errNil = errors.New("redis: nil")

type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failGet bool
	failSet bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return "", errors.New("connection refused")
	}
	v, ok := s.data[key]
	if !ok {
		return "", errNil
	}
	return v, nil
}

func (s *memStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet {
		return errors.New("connection refused")
	}
	s.data[key] = string(value.([]byte))
	s.ttls[key] = ttl
	return nil
}

func (s *memStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var n int64
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}

func isNil(err error) bool { return errors.Is(err, errNil) }

func TestGetOrCompute(t *testing.T) {
	store := newMemStore()
	c := New(store, time.Minute, isNil)
	ctx := context.Background()
	key := Key{Language: "english", Text: "The quick brown fox"}

	calls := 0
	compute := func() (*Result, error) {
		calls++
		return &Result{Tokens: []string{"quick", "brown", "fox"}, InputTokens: 4}, nil
	}

	first, hit, err := c.GetOrCompute(ctx, key, compute)
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	second, hit, err := c.GetOrCompute(ctx, key, compute)
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result %+v != computed %+v", second, first)
	}
	for _, ttl := range store.ttls {
		if ttl != time.Minute {
			t.Errorf("ttl = %v, want 1m", ttl)
		}
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}
}

func TestKeysSeparateModes(t *testing.T) {
	base := Key{Language: "english", Text: "hello"}
	keep := base
	keep.KeepPunctuation = true
	french := base
	french.Language = "french"

	keys := map[string]bool{buildKey(base): true, buildKey(keep): true, buildKey(french): true}
	if len(keys) != 3 {
		t.Error("language and punctuation mode must produce distinct keys")
	}
	if !strings.HasPrefix(buildKey(base), keyPrefix) {
		t.Errorf("key %q lacks prefix", buildKey(base))
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	c := New(newMemStore(), time.Minute, isNil)
	ctx := context.Background()
	key := Key{Language: "klingon", Text: "x"}
	boom := errors.New("stopwords file not found")

	if _, _, err := c.GetOrCompute(ctx, key, func() (*Result, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	_, hit, err := c.GetOrCompute(ctx, key, func() (*Result, error) { return &Result{}, nil })
	if err != nil || hit {
		t.Errorf("after error: hit=%v err=%v", hit, err)
	}
}

func TestStoreFailureFallsThrough(t *testing.T) {
	store := newMemStore()
	store.failGet = true
	c := New(store, time.Minute, isNil)

	res, hit, err := c.GetOrCompute(context.Background(), Key{Language: "english", Text: "x"}, func() (*Result, error) {
		return &Result{Tokens: []string{"x"}}, nil
	})
	if err != nil || hit || len(res.Tokens) != 1 {
		t.Errorf("res=%+v hit=%v err=%v", res, hit, err)
	}
}

func TestConcurrentMissesComputeOnce(t *testing.T) {
	c := New(newMemStore(), time.Minute, isNil)
	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() (*Result, error) {
		calls.Add(1)
		<-release
		return &Result{Tokens: []string{"x"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := c.GetOrCompute(context.Background(), Key{Language: "english", Text: "x"}, compute); err != nil {
				t.Errorf("GetOrCompute: %v", err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Errorf("compute calls = %d, want 1", n)
	}
}

func TestInvalidate(t *testing.T) {
	store := newMemStore()
	c := New(store, time.Minute, isNil)
	ctx := context.Background()
	c.Set(ctx, Key{Language: "english", Text: "a"}, &Result{})
	c.Set(ctx, Key{Language: "english", Text: "b"}, &Result{})
	store.data["unrelated"] = "keep"

	n, err := c.Invalidate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if _, ok := store.data["unrelated"]; !ok {
		t.Error("keys outside the prefix must survive")
	}
}
