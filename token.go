// ═══════════════════════════════════════════════════════════════════════════════
// TOKEN STREAM CONTRACT
// ═══════════════════════════════════════════════════════════════════════════════
// A token stream turns one field value into a sequence of searchable terms.
// Every analyzer in this package implements the same small state machine:
//
//	stream := sift.NewDelimiterAnalyzer(",")
//	if err := stream.Reset(input); err != nil { ... }
//	for stream.Next() {
//	    tok := stream.Token()
//	    // index tok.Term at [tok.Start, tok.End)
//	}
//
// LIFECYCLE RULES:
// ----------------
//  1. An instance is constructed once and Reset any number of times.
//  2. Next advances one token at a time; once it returns false it keeps
//     returning false until the next Reset.
//  3. Token() is only meaningful immediately after Next returned true and is
//     overwritten by the following Next call.
//
// Instances hold private scratch state (segmenter cursor, decode buffers) and
// are therefore sequential-use only. Two instances built from the same cached
// configuration may run on different goroutines because the shared resolved
// configuration is read-only after construction.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

import (
	"errors"
	"math"
)

// Token is the set of attributes emitted for one analyzed term.
//
// All offsets are byte offsets into the exact input passed to Reset. The
// analyzers operate on the input in place (UTF-8 is the internal
// representation), so raw-input bytes and internal code units coincide.
type Token struct {
	// Term is the fully transformed token value. It may alias internal
	// buffers or the Reset input and is only valid until the next call to
	// Next or Reset.
	Term []byte

	// Start and End delimit the source span of the token, as byte offsets
	// into the Reset input: [Start, End).
	Start uint32
	End   uint32

	// PositionIncrement is the position gap to the previous emitted token.
	// The analyzers in this package always report 1; tokens discarded by
	// stopword filtering do not widen the gap.
	PositionIncrement uint32

	// Payload carries the raw, pre-transform bytes of the span for analyzers
	// that preserve them (delimiter and stemming analyzers). Nil otherwise.
	Payload []byte
}

// TokenStream is the contract shared by all analyzers.
type TokenStream interface {
	// Reset (re)initializes the stream for a new input. It may be called any
	// number of times on the same instance. On error the stream holds no
	// pending token and Next returns false.
	Reset(input []byte) error

	// Next advances to the next token, returning false on exhaustion. After
	// the first false, all calls return false until the next Reset.
	Next() bool

	// Token returns the attributes of the current token. Valid only after a
	// Next call that returned true.
	Token() Token
}

// Analyzer is a TokenStream that can also report its registered type name and
// re-serialize its configuration, so that a resolved configuration can be
// stored and later reconstructed.
type Analyzer interface {
	TokenStream

	// Type returns the registry name of the analyzer ("text", "delimiter",
	// "stem").
	Type() string

	// MarshalConfigJSON serializes the analyzer configuration to the
	// structured JSON form accepted by NewFromJSON. Re-parsing the result
	// yields a semantically equivalent analyzer.
	MarshalConfigJSON() ([]byte, error)

	// MarshalConfigText serializes the analyzer configuration to the compact
	// single-string form accepted by NewFromText.
	MarshalConfigText() (string, error)
}

// Error kinds for construction and Reset failures. Callers classify errors
// with errors.Is; the concrete messages carry the detail.
//
// Degraded per-token situations (a normalizer hiccup, a missing stemmer for
// the configured language) are never errors: the pipeline falls back to the
// less-processed value and keeps going.
var (
	// ErrConfiguration covers malformed structured configs, missing or
	// mistyped fields, unrecognized enum values and unresolvable locales.
	ErrConfiguration = errors.New("sift: invalid analyzer configuration")

	// ErrEncoding covers inputs the analyzer cannot represent: longer than
	// the maximum supported length, or not valid UTF-8.
	ErrEncoding = errors.New("sift: unsupported input encoding")

	// ErrResource covers failures to acquire an external resource, such as
	// an unreadable stopword directory.
	ErrResource = errors.New("sift: resource unavailable")
)

const (
	// maxInputLen caps Reset inputs for the text and stemming analyzers,
	// matching the widest length the stemming engine accepts.
	maxInputLen = math.MaxInt32

	// maxTokenOffset is the largest representable token offset. The
	// delimiter analyzer stops iterating rather than emit a token whose end
	// would not fit.
	maxTokenOffset = math.MaxUint32
)
