// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYSIS OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// Text analysis transforms raw field text into searchable tokens through a
// multi-stage pipeline. This process is crucial for effective full-text
// search.
//
// EXAMPLE TRANSFORMATION:
// -----------------------
// Input:  "The Quick Brown Fox Jumps!"
// Step 1: ["The", "Quick", "Brown", "Fox", "Jumps"]   (segment)
// Step 2: ["the", "quick", "brown", "fox", "jumps"]   (case convert)
// Step 3: ["quick", "brown", "fox", "jumps"]          (remove stopwords)
// Step 4: ["quick", "brown", "fox", "jump"]           (stemming)
//
// WHY THIS MATTERS:
// -----------------
// Proper analysis ensures:
// - "Running" matches "run", "runs", "ran"
// - "The dog" matches "DOG" (case insensitive)
// - Common words don't pollute the index
// - Search results are relevant and accurate
//
// The full machinery lives behind the TokenStream contract (token.go); the
// helpers in this file drain a text analyzer in one call, for callers that
// only need the terms and not offsets or streaming.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

// DefaultTextOptions returns the standard analysis configuration for a
// locale: lower-casing, stemming, and the built-in English stopword list.
// The list is explicit, so no stopword directory is consulted.
func DefaultTextOptions(locale string) TextOptions {
	return TextOptions{
		Locale:       locale,
		CaseConvert:  CaseLower,
		Stopwords:    EnglishStopwords,
		StopwordsSet: true,
	}
}

// Analyze transforms text into searchable terms using the default English
// pipeline.
//
// Example:
//
//	terms, err := sift.Analyze(cache, "The quick brown fox jumps over the lazy dog")
//	// terms: ["quick", "brown", "fox", "jump", "lazi", "dog"]
func Analyze(cache *Cache, text string) ([]string, error) {
	return AnalyzeWithOptions(cache, DefaultTextOptions("en"), text)
}

// AnalyzeWithOptions transforms text using a custom configuration, draining
// the token stream into a plain term slice.
func AnalyzeWithOptions(cache *Cache, opts TextOptions, text string) ([]string, error) {
	analyzer, err := NewTextAnalyzer(cache, opts)
	if err != nil {
		return nil, err
	}
	if err := analyzer.Reset([]byte(text)); err != nil {
		return nil, err
	}

	var terms []string
	for analyzer.Next() {
		terms = append(terms, string(analyzer.Token().Term))
	}
	return terms, nil
}
