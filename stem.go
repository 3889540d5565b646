// ═══════════════════════════════════════════════════════════════════════════════
// STEMMING ANALYZER
// ═══════════════════════════════════════════════════════════════════════════════
// Treats the whole input as a single term and reduces it to its linguistic
// root, with no segmentation, case conversion or stopword handling:
//
//	Input: "running"  (locale "en")  →  one token "run"
//
// Unlike the text analyzer this is not a multi-token stream: Reset eagerly
// computes the one term, and Next ticks through a two-state machine
// {Ready, Exhausted}. Stemming is best effort: a locale without a stemming
// engine emits the input verbatim. The raw input rides along as the payload.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/kljensen/snowball"
	"golang.org/x/text/language"
)

// StemOptions configures a stemming analyzer.
type StemOptions struct {
	// Locale identifies the stemming language, e.g. "en". Required.
	Locale string
}

// StemAnalyzer is the single-token stemming stream. Not safe for concurrent
// use.
type StemAnalyzer struct {
	locale string

	// Resolved lazily on the first Reset, reused afterwards.
	stemLang     string
	stemResolved bool

	tag   language.Tag
	ready bool // a token is pending
	token Token
}

// NewStemAnalyzer builds a stemming analyzer for a locale (the compact form).
func NewStemAnalyzer(locale string) (*StemAnalyzer, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: unresolvable locale %q: %v", ErrConfiguration, locale, err)
	}
	return &StemAnalyzer{locale: locale, tag: tag}, nil
}

// NewStemAnalyzerFromJSON builds a stemming analyzer from the structured form
// {"locale": "en"}. A bare JSON string is the compact form.
func NewStemAnalyzerFromJSON(raw []byte) (*StemAnalyzer, error) {
	var compact string
	if err := json.Unmarshal(raw, &compact); err == nil {
		return NewStemAnalyzer(compact)
	}

	var cfg struct {
		Locale *string `json:"locale"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if cfg.Locale == nil {
		return nil, fmt.Errorf("%w: missing required field %q", ErrConfiguration, "locale")
	}

	return NewStemAnalyzer(*cfg.Locale)
}

// Type implements Analyzer.
func (a *StemAnalyzer) Type() string { return "stem" }

// Reset implements TokenStream. The whole input becomes one pending token:
// its stem when the locale has a stemming engine and the stem succeeds, the
// input verbatim otherwise. Inputs longer than the engine's maximum are
// truncated (with a diagnostic), not rejected; inputs that are not valid
// UTF-8 fail the reset.
func (a *StemAnalyzer) Reset(input []byte) error {
	a.ready = false
	a.token = Token{}

	if !a.stemResolved {
		a.stemLang = stemmerLanguage(a.tag)
		a.stemResolved = true
	}

	src := input
	if len(src) > maxInputLen {
		glog.Warningf("token of %d bytes exceeds the supported maximum %d, truncating", len(src), maxInputLen)
		src = src[:maxInputLen]
	}
	if !utf8.Valid(src) {
		return fmt.Errorf("%w: input is not valid UTF-8", ErrEncoding)
	}

	term := src
	if a.stemLang != "" {
		if stemmed, err := snowball.Stem(string(src), a.stemLang, false); err == nil {
			term = []byte(stemmed)
		} // else: use the un-stemmed value
	}

	a.token = Token{
		Term:              term,
		Start:             0,
		End:               uint32(len(src)),
		PositionIncrement: 1,
		Payload:           input,
	}
	a.ready = true
	return nil
}

// Next implements TokenStream. Exactly one true per successful Reset.
func (a *StemAnalyzer) Next() bool {
	if !a.ready {
		return false
	}
	a.ready = false
	return true
}

// Token implements TokenStream.
func (a *StemAnalyzer) Token() Token { return a.token }

// MarshalConfigJSON implements Analyzer.
func (a *StemAnalyzer) MarshalConfigJSON() ([]byte, error) {
	return json.Marshal(struct {
		Locale string `json:"locale"`
	}{Locale: a.locale})
}

// MarshalConfigText implements Analyzer.
func (a *StemAnalyzer) MarshalConfigText() (string, error) {
	return a.locale, nil
}
