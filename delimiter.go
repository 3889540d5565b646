// ═══════════════════════════════════════════════════════════════════════════════
// DELIMITER ANALYZER
// ═══════════════════════════════════════════════════════════════════════════════
// Splits the input on a literal byte-string delimiter, with CSV-style
// quote-aware field parsing:
//
//	Input: `"a,b",c`    Delimiter: ","
//	Spans: [`"a,b"`, `c`]     (the comma inside quotes does not split)
//	Terms: [`a,b`, `c`]       (quoted spans are unquoted, `""` → `"`)
//
// Each token also carries the raw, pre-unquoting span bytes as its payload.
//
// QUOTING RULES:
// --------------
//   - A quoted span begins at an unescaped `"` and runs to the matching `"`.
//   - Delimiters inside a quoted span do not split.
//   - At a position where both could match, the delimiter wins over opening a
//     new quoted span.
//   - Inside a quoted term, a doubled `""` decodes to one literal `"`.
//   - A quoted span whose closing quote never arrives does not swallow the
//     rest of the input: the opening quote is treated as a literal and the
//     scan resumes after it, so `"abc,d` still splits into `"abc` and `d`.
//   - A span whose quoting does not decode falls back to its raw bytes,
//     quote characters included. That is identity, not an error.
//
// OFFSETS:
// --------
// The first token starts at 0; each later token starts where the previous one
// ended plus the delimiter length. Iteration stops (without emitting) when an
// end offset would no longer fit the offset attribute.
//
// An empty delimiter means no splitting: the whole input is a single token.
// ═══════════════════════════════════════════════════════════════════════════════

package sift

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DelimiterOptions configures a delimiter analyzer.
type DelimiterOptions struct {
	// Delimiter is the literal byte string to split on. Empty means the
	// whole input is one token.
	Delimiter string
}

// DelimiterAnalyzer splits input on a fixed delimiter. Not safe for
// concurrent use.
type DelimiterAnalyzer struct {
	delim []byte

	data    []byte // unconsumed input
	done    bool
	first   bool   // next token is the first of this input
	prevEnd uint32 // end offset of the previous token
	termBuf []byte // reused by unquoting
	token   Token
}

// NewDelimiterAnalyzer builds a delimiter analyzer from the compact form: the
// delimiter itself.
func NewDelimiterAnalyzer(delimiter string) *DelimiterAnalyzer {
	return &DelimiterAnalyzer{delim: []byte(delimiter), done: true}
}

// NewDelimiterAnalyzerFromJSON builds a delimiter analyzer from the
// structured form {"delimiter": ","}. A bare JSON string is the compact form.
func NewDelimiterAnalyzerFromJSON(raw []byte) (*DelimiterAnalyzer, error) {
	var compact string
	if err := json.Unmarshal(raw, &compact); err == nil {
		return NewDelimiterAnalyzer(compact), nil
	}

	var cfg struct {
		Delimiter *string `json:"delimiter"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if cfg.Delimiter == nil {
		return nil, fmt.Errorf("%w: missing required field %q", ErrConfiguration, "delimiter")
	}

	return NewDelimiterAnalyzer(*cfg.Delimiter), nil
}

// Type implements Analyzer.
func (a *DelimiterAnalyzer) Type() string { return "delimiter" }

// Reset implements TokenStream. The input is not copied and must not be
// mutated while the stream is being drained. It never fails; an empty input
// yields a single empty token.
func (a *DelimiterAnalyzer) Reset(input []byte) error {
	a.data = input
	a.done = false
	a.first = true
	a.prevEnd = 0
	return nil
}

// Next implements TokenStream.
func (a *DelimiterAnalyzer) Next() bool {
	if a.done {
		return false
	}

	size := findDelimiter(a.data, a.delim)

	// Consume at least one byte per step so an empty field before a
	// delimiter cannot stall the scan.
	advance := size + len(a.delim)
	if advance < 1 {
		advance = 1
	}

	var start uint64
	if !a.first {
		start = uint64(a.prevEnd) + uint64(len(a.delim))
	}
	end := start + uint64(size)
	if end > maxTokenOffset {
		a.done = true // cannot fit the next token into the offset attribute
		return false
	}

	payload := a.data[:size:size]
	term := payload
	if len(a.delim) != 0 {
		term = evalTerm(&a.termBuf, payload)
	}

	a.token = Token{
		Term:              term,
		Start:             uint32(start),
		End:               uint32(end),
		PositionIncrement: 1,
		Payload:           payload,
	}
	a.first = false
	a.prevEnd = uint32(end)

	if size >= len(a.data) {
		a.data = nil
		a.done = true
	} else {
		a.data = a.data[advance:]
	}
	return true
}

// Token implements TokenStream.
func (a *DelimiterAnalyzer) Token() Token { return a.token }

// MarshalConfigJSON implements Analyzer.
func (a *DelimiterAnalyzer) MarshalConfigJSON() ([]byte, error) {
	return json.Marshal(struct {
		Delimiter string `json:"delimiter"`
	}{Delimiter: string(a.delim)})
}

// MarshalConfigText implements Analyzer.
func (a *DelimiterAnalyzer) MarshalConfigText() (string, error) {
	return string(a.delim), nil
}

// findDelimiter returns the index of the first delimiter occurrence outside a
// quoted span, or len(data) when there is none (the remainder is the final
// token). A quoted span that never closes does not swallow the rest of the
// input: its opening quote is demoted to a literal and the scan resumes after
// it. An empty delimiter never matches.
func findDelimiter(data, delim []byte) int {
	if len(delim) == 0 {
		return len(data)
	}

	from := 0
	for {
		idx, unclosed := scanDelimiter(data, delim, from)
		if !unclosed {
			return idx
		}
		from = idx + 1 // reopen the scan after the unmatched quote
	}
}

// scanDelimiter looks for an unquoted delimiter at or after from. When the
// input ends inside a quoted span that never closed, it returns the index of
// that span's opening quote and unclosed=true.
func scanDelimiter(data, delim []byte, from int) (idx int, unclosed bool) {
	quoted := false
	open := -1

	for i := from; i < len(data); i++ {
		if quoted {
			if data[i] == '"' {
				quoted = false
			}
			continue
		}

		if len(data)-i < len(delim) {
			break // no room left for a delimiter
		}

		// Delimiter match takes precedence over opening a quoted span.
		if bytes.Equal(data[i:i+len(delim)], delim) {
			return i, false
		}

		if data[i] == '"' {
			quoted = true
			open = i
		}
	}

	if quoted {
		return open, true
	}
	return len(data), false
}

// evalTerm decodes one span through quote evaluation. A span that does not
// begin with `"` is returned as-is. Otherwise the quoted pieces are collected
// into buf with doubled `""` decoding to `"`; if the quoting never closes
// properly the raw span is returned unchanged (identity fallback).
//
// EXAMPLES:
// ---------
//
//	`abc`      → `abc`     (unquoted)
//	`"a,b"`    → `a,b`
//	`"a""b"`   → `a"b`
//	`"abc`     → `"abc`    (mismatched quote, identity)
//	`"a"x`     → `"a"x`    (trailing garbage, identity)
func evalTerm(buf *[]byte, data []byte) []byte {
	if len(data) == 0 || data[0] != '"' {
		return data // not a quoted term, even if quotes appear inside
	}

	out := (*buf)[:0]
	closed := false
	start := 1

	for i := 1; i < len(data); i++ {
		if data[i] != '"' {
			continue
		}

		if closed && start == i {
			// Doubled quote right after a close: one literal quote,
			// already covered by the next appended piece.
			closed = false
			continue
		}

		if closed {
			closed = false
			break // reopened after a close: mismatched quoting
		}

		out = append(out, data[start:i]...)
		closed = true
		start = i + 1
	}

	*buf = out

	if start != 1 && start == len(data) {
		return out
	}
	return data // identity fallback for mismatched quotes
}
