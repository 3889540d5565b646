package sift

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCache_Resolve_BuildsOncePerKey(t *testing.T) {
	cache := NewCache()
	builds := 0

	build := func() (*ResolvedConfig, error) {
		builds++
		return &ResolvedConfig{}, nil
	}

	first, err := cache.resolve("key", build)
	if err != nil {
		t.Fatalf("resolve() failed: %v", err)
	}
	second, err := cache.resolve("key", build)
	if err != nil {
		t.Fatalf("resolve() failed: %v", err)
	}

	if builds != 1 {
		t.Errorf("build count = %d, want 1", builds)
	}
	if first != second {
		t.Error("callers observed different ResolvedConfig instances")
	}

	if _, err := cache.resolve("other", build); err != nil {
		t.Fatalf("resolve() failed: %v", err)
	}
	if builds != 2 {
		t.Errorf("build count after second key = %d, want 2", builds)
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestCache_Resolve_FailedBuildReleasesKey(t *testing.T) {
	cache := NewCache()
	fail := true

	build := func() (*ResolvedConfig, error) {
		if fail {
			return nil, ErrResource
		}
		return &ResolvedConfig{}, nil
	}

	if _, err := cache.resolve("key", build); !errors.Is(err, ErrResource) {
		t.Fatalf("error = %v, want ErrResource", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after failed build = %d, want 0", cache.Len())
	}

	// The problem is fixed: the same key builds fine now.
	fail = false
	if _, err := cache.resolve("key", build); err != nil {
		t.Errorf("resolve() after recovery failed: %v", err)
	}
}

func TestCache_Resolve_ConcurrentCallersShareOneBuild(t *testing.T) {
	cache := NewCache()

	var builds atomic.Int32
	gate := make(chan struct{})

	build := func() (*ResolvedConfig, error) {
		builds.Add(1)
		<-gate // hold every waiter on the in-flight build
		return &ResolvedConfig{}, nil
	}

	const callers = 16
	results := make([]*ResolvedConfig, callers)

	var started, finished sync.WaitGroup
	started.Add(callers)
	finished.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer finished.Done()
			started.Done()
			cfg, err := cache.resolve("key", build)
			if err != nil {
				t.Errorf("resolve() failed: %v", err)
			}
			results[i] = cfg
		}(i)
	}

	started.Wait()
	close(gate)
	finished.Wait()

	if got := builds.Load(); got != 1 {
		t.Errorf("build count = %d, want 1", got)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d observed a different ResolvedConfig", i)
		}
	}
}

// Two analyzers built from one canonical key must trigger the stopword
// loading collaborator exactly once, then tokenize independently.
func TestCache_SharedConfigAcrossAnalyzers(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "en")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "words.txt"), []byte("the\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cache := NewCache()
	opts := TextOptions{Locale: "en", StopwordsPath: &root, NoStem: true}

	first, err := NewTextAnalyzer(cache, opts)
	if err != nil {
		t.Fatalf("NewTextAnalyzer() failed: %v", err)
	}

	// Remove the stopword files: a second construction with the same key
	// must not touch the filesystem again.
	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	second, err := NewTextAnalyzer(cache, opts)
	if err != nil {
		t.Fatalf("second NewTextAnalyzer() hit the filesystem again: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	// Interleaved use: each instance owns its own scratch state.
	if err := first.Reset([]byte("the cat")); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if err := second.Reset([]byte("the dog barks")); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	if !first.Next() {
		t.Fatal("first.Next() = false, want true")
	}
	firstTerm := string(first.Token().Term)

	gotSecond := []string{}
	for second.Next() {
		gotSecond = append(gotSecond, string(second.Token().Term))
	}

	if firstTerm != "cat" {
		t.Errorf("first term = %q, want %q", firstTerm, "cat")
	}
	if diff := cmp.Diff([]string{"dog", "barks"}, gotSecond); diff != "" {
		t.Errorf("second stream mismatch (-want +got):\n%s", diff)
	}
	if first.Next() {
		t.Error("first stream should be exhausted")
	}
}
