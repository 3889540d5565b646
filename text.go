// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYZER
// ═══════════════════════════════════════════════════════════════════════════════
// The text analyzer runs the full locale-aware pipeline. Each word span found
// by the segmenter passes through five stages:
//
//	1. Segmentation   → UAX#29 word boundaries classify spans as word/non-word
//	2. Normalization  → canonical form (NFC)
//	3. Case convert   → lower/upper per the resolved locale, or untouched
//	4. Accent strip   → NFD, drop nonspacing marks, NFC (when configured)
//	5. Stopword check → exact match against the resolved set discards the span
//	6. Stemming       → snowball stem for the locale's language, best effort
//
// EXAMPLE:
// --------
// Input:  "The Quick Brown Foxes!"   (lower + english stopwords + stemming)
// Spans:  ["The", " ", "Quick", " ", "Brown", " ", "Foxes", "!"]
// Words:  ["The", "Quick", "Brown", "Foxes"]       (non-word spans skipped)
// Lower:  ["the", "quick", "brown", "foxes"]
// Stop:   ["quick", "brown", "foxes"]
// Stem:   ["quick", "brown", "fox"]
//
// DEGRADED RESULTS ARE NOT ERRORS:
// --------------------------------
// A failing normalization falls back to the un-normalized span. A locale with
// no stemming engine (or a failing stem) falls back to the fully transformed,
// un-stemmed value. Only configuration, encoding and resource problems stop
// the stream.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

import (
	"encoding/json"
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
	"github.com/golang/glog"
	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CaseConvert selects how tokens are case-converted, using the rules of the
// configured locale.
type CaseConvert int

const (
	// CaseNone leaves token case untouched.
	CaseNone CaseConvert = iota
	// CaseLower lower-cases tokens.
	CaseLower
	// CaseUpper upper-cases tokens.
	CaseUpper
)

// String returns the wire name of the case conversion mode.
func (c CaseConvert) String() string {
	switch c {
	case CaseLower:
		return "lower"
	case CaseUpper:
		return "upper"
	default:
		return "none"
	}
}

// TextOptions configures a text analyzer.
type TextOptions struct {
	// Locale identifies the language, e.g. "en" or "de-AT". Required.
	Locale string

	// CaseConvert selects token case conversion. Default: CaseNone.
	CaseConvert CaseConvert

	// Stopwords is the explicit stopword list. Insertion order is
	// irrelevant; membership is tested on the fully transformed token.
	Stopwords []string

	// StopwordsSet records that Stopwords was explicitly provided, which
	// distinguishes "no list given" from "given, possibly empty". An
	// explicit list (even empty) with no StopwordsPath suppresses default
	// stopword-directory loading.
	StopwordsSet bool

	// StopwordsPath points at a custom stopword root directory. Nil means
	// unset; a pointer to "" means "use the working-directory default
	// lookup"; anything else is used as the root, made absolute against the
	// working directory when relative.
	StopwordsPath *string

	// NoAccent strips accents (nonspacing marks) from tokens.
	NoAccent bool

	// NoStem disables stemming.
	NoStem bool
}

// TextAnalyzer is the locale-aware token stream. Not safe for concurrent use;
// build one instance per goroutine (they share the resolved configuration
// through the cache).
type TextAnalyzer struct {
	cfg *ResolvedConfig // shared, read-only

	// Capability services, built lazily on the first Reset and reused on
	// every subsequent one.
	engines struct {
		ready    bool
		caser    *cases.Caser          // nil when CaseNone
		stripper transform.Transformer // nil unless NoAccent
		stemLang string                // "" when stemming is off or unsupported
	}

	// Per-input scratch state.
	seg       *segment.Segmenter
	cursor    int
	exhausted bool
	token     Token
}

// NewTextAnalyzer builds a text analyzer from options, resolving the
// configuration through cache. The canonical key is the serialized JSON form
// of opts, so equivalent options share one ResolvedConfig.
func NewTextAnalyzer(cache *Cache, opts TextOptions) (*TextAnalyzer, error) {
	key, err := marshalTextConfig(opts)
	if err != nil {
		return nil, err
	}
	return newTextAnalyzer(cache, string(key), opts)
}

// NewTextAnalyzerFromJSON builds a text analyzer from the structured JSON
// configuration form. A JSON document that is a bare string is the compact
// form: the string is the locale.
//
// Recognized fields:
//
//	{
//	    "locale":        "en",             // required
//	    "caseConvert":   "lower",          // "lower" | "none" | "upper"
//	    "stopwords":     ["the", "a"],     // presence (even empty) marks the list explicit
//	    "stopwordsPath": "/etc/stopwords", // "" means working-directory lookup
//	    "noAccent":      true,
//	    "noStem":        false
//	}
func NewTextAnalyzerFromJSON(cache *Cache, raw []byte) (*TextAnalyzer, error) {
	var compact string
	if err := json.Unmarshal(raw, &compact); err == nil {
		return NewTextAnalyzerFromText(cache, compact)
	}

	opts, err := parseTextConfig(raw)
	if err != nil {
		return nil, err
	}
	return newTextAnalyzer(cache, string(raw), opts)
}

// NewTextAnalyzerFromText builds a text analyzer from the compact form: a
// bare locale string, with every other option at its default.
func NewTextAnalyzerFromText(cache *Cache, locale string) (*TextAnalyzer, error) {
	return newTextAnalyzer(cache, locale, TextOptions{Locale: locale})
}

func newTextAnalyzer(cache *Cache, key string, opts TextOptions) (*TextAnalyzer, error) {
	cfg, err := cache.resolve(key, func() (*ResolvedConfig, error) {
		return resolveTextConfig(opts)
	})
	if err != nil {
		return nil, err
	}
	return &TextAnalyzer{cfg: cfg, exhausted: true}, nil
}

// resolveTextConfig performs the expensive, cache-once part of construction:
// locale resolution and stopword loading.
func resolveTextConfig(opts TextOptions) (*ResolvedConfig, error) {
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: unresolvable locale %q: %v", ErrConfiguration, opts.Locale, err)
	}

	stopwords, err := resolveStopwords(opts, tag)
	if err != nil {
		return nil, err
	}

	// The published config must never change afterwards; detach the slice
	// from the caller's.
	opts.Stopwords = append([]string(nil), opts.Stopwords...)

	return &ResolvedConfig{Options: opts, Tag: tag, Stopwords: stopwords}, nil
}

// Type implements Analyzer.
func (a *TextAnalyzer) Type() string { return "text" }

// Reset implements TokenStream. The input must be valid UTF-8 of at most
// 2^31-1 bytes; it is not copied and must not be mutated while the stream is
// being drained.
func (a *TextAnalyzer) Reset(input []byte) error {
	a.exhausted = true
	a.seg = nil

	if !a.engines.ready {
		a.buildEngines()
	}

	if len(input) > maxInputLen {
		return fmt.Errorf("%w: input of %d bytes exceeds %d", ErrEncoding, len(input), maxInputLen)
	}
	if !utf8.Valid(input) {
		return fmt.Errorf("%w: input is not valid UTF-8", ErrEncoding)
	}

	a.seg = segment.NewWordSegmenterDirect(input)
	a.cursor = 0
	a.exhausted = false
	return nil
}

// buildEngines constructs the per-instance capability services. Runs once per
// analyzer; later Resets reuse the handles.
func (a *TextAnalyzer) buildEngines() {
	switch a.cfg.Options.CaseConvert {
	case CaseLower:
		c := cases.Lower(a.cfg.Tag)
		a.engines.caser = &c
	case CaseUpper:
		c := cases.Upper(a.cfg.Tag)
		a.engines.caser = &c
	}

	if a.cfg.Options.NoAccent {
		// The ICU transliteration rule "NFD; [:Nonspacing Mark:] Remove; NFC"
		// spelled as a transform chain.
		a.engines.stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}

	if !a.cfg.Options.NoStem {
		// Absence of a stemmer for the language is not an error; tokens are
		// emitted un-stemmed.
		a.engines.stemLang = stemmerLanguage(a.cfg.Tag)
	}

	a.engines.ready = true
}

// Next implements TokenStream. It walks segmenter spans, skipping non-word
// spans and stopwords, until a term survives the pipeline.
func (a *TextAnalyzer) Next() bool {
	if a.exhausted || a.seg == nil {
		return false
	}

	for a.seg.Segment() {
		span := a.seg.Bytes()
		start := a.cursor
		a.cursor += len(span)

		if a.seg.Type() == segment.None {
			continue // punctuation, whitespace and the like
		}

		term, ok := a.processTerm(span)
		if !ok {
			continue
		}

		a.token = Token{
			Term:              term,
			Start:             uint32(start),
			End:               uint32(a.cursor),
			PositionIncrement: 1,
		}
		return true
	}

	if err := a.seg.Err(); err != nil {
		glog.Warningf("word segmentation ended early: %v", err)
	}
	a.exhausted = true
	return false
}

// Token implements TokenStream.
func (a *TextAnalyzer) Token() Token { return a.token }

// processTerm runs one word span through normalize → case convert → accent
// strip → stopword check → stem. The second result is false when the span is
// a stopword.
func (a *TextAnalyzer) processTerm(span []byte) ([]byte, bool) {
	word := string(span)

	if normalized, _, err := transform.String(norm.NFC, word); err == nil {
		word = normalized
	} // else: keep the un-normalized value

	if a.engines.caser != nil {
		word = a.engines.caser.String(word)
	}

	if a.engines.stripper != nil {
		if stripped, _, err := transform.String(a.engines.stripper, word); err == nil {
			word = stripped
		}
	}

	if _, stop := a.cfg.Stopwords[word]; stop {
		return nil, false
	}

	if a.engines.stemLang != "" {
		if stemmed, err := snowball.Stem(word, a.engines.stemLang, false); err == nil {
			return []byte(stemmed), true
		}
	}

	return []byte(word), true
}

// MarshalConfigJSON implements Analyzer.
func (a *TextAnalyzer) MarshalConfigJSON() ([]byte, error) {
	return marshalTextConfig(a.cfg.Options)
}

// MarshalConfigText implements Analyzer. Only the locale survives the compact
// form.
func (a *TextAnalyzer) MarshalConfigText() (string, error) {
	return a.cfg.Options.Locale, nil
}

// snowballLanguages maps base language codes to the stemming engine's
// language names.
var snowballLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"hu": "hungarian",
	"nb": "norwegian",
	"nn": "norwegian",
	"no": "norwegian",
	"ru": "russian",
	"sv": "swedish",
}

// stemmerLanguage returns the stemming engine language for a locale, or ""
// when the language has no stemmer.
func stemmerLanguage(tag language.Tag) string {
	base, _ := tag.Base()
	return snowballLanguages[base.String()]
}

// textConfig is the wire form of TextOptions. Stopwords is a pointer so that
// an explicitly provided empty list survives the round trip, and
// StopwordsPath a pointer so "unset" and "empty" stay distinct.
type textConfig struct {
	Locale        string    `json:"locale"`
	CaseConvert   *string   `json:"caseConvert,omitempty"`
	Stopwords     *[]string `json:"stopwords,omitempty"`
	StopwordsPath *string   `json:"stopwordsPath,omitempty"`
	NoAccent      bool      `json:"noAccent"`
	NoStem        bool      `json:"noStem"`
}

// parseTextConfig decodes the structured JSON configuration into options.
func parseTextConfig(raw []byte) (TextOptions, error) {
	var cfg textConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return TextOptions{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if cfg.Locale == "" {
		return TextOptions{}, fmt.Errorf("%w: missing required field %q", ErrConfiguration, "locale")
	}

	opts := TextOptions{
		Locale:        cfg.Locale,
		StopwordsPath: cfg.StopwordsPath,
		NoAccent:      cfg.NoAccent,
		NoStem:        cfg.NoStem,
	}

	if cfg.CaseConvert != nil {
		switch *cfg.CaseConvert {
		case "lower":
			opts.CaseConvert = CaseLower
		case "none":
			opts.CaseConvert = CaseNone
		case "upper":
			opts.CaseConvert = CaseUpper
		default:
			return TextOptions{}, fmt.Errorf("%w: unrecognized caseConvert value %q", ErrConfiguration, *cfg.CaseConvert)
		}
	}

	if cfg.Stopwords != nil {
		opts.Stopwords = *cfg.Stopwords
		opts.StopwordsSet = true
	}

	return opts, nil
}

// marshalTextConfig encodes options back to the structured form. The stopword
// list is emitted sorted so that equivalent options produce one canonical
// cache key.
func marshalTextConfig(opts TextOptions) ([]byte, error) {
	switch opts.CaseConvert {
	case CaseNone, CaseLower, CaseUpper:
	default:
		return nil, fmt.Errorf("%w: unrecognized case conversion mode %d", ErrConfiguration, opts.CaseConvert)
	}
	caseName := opts.CaseConvert.String()

	cfg := textConfig{
		Locale:        opts.Locale,
		CaseConvert:   &caseName,
		StopwordsPath: opts.StopwordsPath,
		NoAccent:      opts.NoAccent,
		NoStem:        opts.NoStem,
	}

	if opts.StopwordsSet || len(opts.Stopwords) > 0 {
		words := append([]string(nil), opts.Stopwords...)
		sort.Strings(words)
		cfg.Stopwords = &words
	}

	return json.Marshal(cfg)
}
