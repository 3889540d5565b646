// ═══════════════════════════════════════════════════════════════════════════════
// ANALYZER REGISTRY
// ═══════════════════════════════════════════════════════════════════════════════
// Callers that store analyzer definitions (an indexing pipeline persisting
// field mappings, for instance) refer to analyzers by type name plus a
// configuration string. The registry maps those names to factories:
//
//	stream, err := sift.NewFromJSON(cache, "text", []byte(`{"locale":"en"}`))
//	stream, err := sift.NewFromText(cache, "delimiter", ",")
//
// Every analyzer re-serializes its configuration (MarshalConfigJSON /
// MarshalConfigText), so a stored definition round-trips through the registry
// back to an equivalent analyzer.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

import (
	"fmt"
	"sort"
	"sync"
)

// JSONFactory builds an analyzer from a structured JSON configuration.
type JSONFactory func(cache *Cache, raw []byte) (Analyzer, error)

// TextFactory builds an analyzer from the compact single-string form.
type TextFactory func(cache *Cache, arg string) (Analyzer, error)

var registry = struct {
	mu        sync.RWMutex
	factories map[string]analyzerFactory
}{factories: make(map[string]analyzerFactory)}

type analyzerFactory struct {
	json JSONFactory
	text TextFactory
}

// Register adds an analyzer type under name. Registering an already-taken
// name fails; the built-in names ("text", "delimiter", "stem") are taken.
func Register(name string, jsonFactory JSONFactory, textFactory TextFactory) error {
	if name == "" || jsonFactory == nil || textFactory == nil {
		return fmt.Errorf("%w: incomplete analyzer registration %q", ErrConfiguration, name)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, dup := registry.factories[name]; dup {
		return fmt.Errorf("%w: analyzer type %q already registered", ErrConfiguration, name)
	}
	registry.factories[name] = analyzerFactory{json: jsonFactory, text: textFactory}
	return nil
}

// NewFromJSON builds an analyzer of the named type from its structured JSON
// configuration.
func NewFromJSON(cache *Cache, name string, raw []byte) (Analyzer, error) {
	f, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return f.json(cache, raw)
}

// NewFromText builds an analyzer of the named type from its compact form.
func NewFromText(cache *Cache, name string, arg string) (Analyzer, error) {
	f, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return f.text(cache, arg)
}

// Names lists the registered analyzer type names, sorted.
func Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (analyzerFactory, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	f, ok := registry.factories[name]
	if !ok {
		return analyzerFactory{}, fmt.Errorf("%w: unknown analyzer type %q", ErrConfiguration, name)
	}
	return f, nil
}

func init() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(Register("text",
		func(cache *Cache, raw []byte) (Analyzer, error) {
			return NewTextAnalyzerFromJSON(cache, raw)
		},
		func(cache *Cache, arg string) (Analyzer, error) {
			return NewTextAnalyzerFromText(cache, arg)
		}))

	must(Register("delimiter",
		func(_ *Cache, raw []byte) (Analyzer, error) {
			return NewDelimiterAnalyzerFromJSON(raw)
		},
		func(_ *Cache, arg string) (Analyzer, error) {
			return NewDelimiterAnalyzer(arg), nil
		}))

	must(Register("stem",
		func(_ *Cache, raw []byte) (Analyzer, error) {
			return NewStemAnalyzerFromJSON(raw)
		},
		func(_ *Cache, arg string) (Analyzer, error) {
			return NewStemAnalyzer(arg)
		}))
}
