package sift

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStemAnalyzer_Next_EnglishStem(t *testing.T) {
	a, err := NewStemAnalyzer("en")
	if err != nil {
		t.Fatalf("NewStemAnalyzer() failed: %v", err)
	}

	got := drainTokens(t, a, "running")
	want := []Token{
		{Term: []byte("run"), Start: 0, End: 7, PositionIncrement: 1, Payload: []byte("running")},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestStemAnalyzer_Next_UnsupportedLanguagePassesThrough(t *testing.T) {
	// No stemmer covers this language: the input passes through verbatim.
	a, err := NewStemAnalyzer("zh")
	if err != nil {
		t.Fatalf("NewStemAnalyzer() failed: %v", err)
	}

	got := drainTerms(t, a, "running")
	if diff := cmp.Diff([]string{"running"}, got); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestStemAnalyzer_Next_SingleTokenLifecycle(t *testing.T) {
	a, err := NewStemAnalyzer("en")
	if err != nil {
		t.Fatalf("NewStemAnalyzer() failed: %v", err)
	}

	if err := a.Reset([]byte("jumps")); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if !a.Next() {
		t.Fatal("Next() = false, want one token")
	}
	if got := string(a.Token().Term); got != "jump" {
		t.Errorf("term = %q, want %q", got, "jump")
	}
	if a.Next() {
		t.Error("Next() = true after the single token")
	}

	// Reset starts a fresh one-token stream.
	got := drainTerms(t, a, "walked")
	if diff := cmp.Diff([]string{"walk"}, got); diff != "" {
		t.Errorf("terms after Reset mismatch (-want +got):\n%s", diff)
	}
}

func TestStemAnalyzer_Reset_RejectsInvalidUTF8(t *testing.T) {
	a, err := NewStemAnalyzer("en")
	if err != nil {
		t.Fatalf("NewStemAnalyzer() failed: %v", err)
	}

	if err := a.Reset([]byte{0xff, 0xfe}); !errors.Is(err, ErrEncoding) {
		t.Errorf("Reset() error = %v, want ErrEncoding", err)
	}
	if a.Next() {
		t.Error("Next() = true after a failed Reset")
	}

	// A failed Reset does not poison the analyzer.
	got := drainTerms(t, a, "cats")
	if diff := cmp.Diff([]string{"cat"}, got); diff != "" {
		t.Errorf("terms after recovery mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStemAnalyzer_InvalidLocale(t *testing.T) {
	for _, locale := range []string{"", "!!", "not a locale"} {
		if _, err := NewStemAnalyzer(locale); !errors.Is(err, ErrConfiguration) {
			t.Errorf("NewStemAnalyzer(%q) error = %v, want ErrConfiguration", locale, err)
		}
	}
}

func TestNewStemAnalyzerFromJSON_Structured(t *testing.T) {
	a, err := NewStemAnalyzerFromJSON([]byte(`{"locale":"en"}`))
	if err != nil {
		t.Fatalf("NewStemAnalyzerFromJSON() failed: %v", err)
	}

	got := drainTerms(t, a, "running")
	if diff := cmp.Diff([]string{"run"}, got); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStemAnalyzerFromJSON_CompactLocaleString(t *testing.T) {
	a, err := NewStemAnalyzerFromJSON([]byte(`"en"`))
	if err != nil {
		t.Fatalf("NewStemAnalyzerFromJSON() failed: %v", err)
	}

	got := drainTerms(t, a, "running")
	if diff := cmp.Diff([]string{"run"}, got); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStemAnalyzerFromJSON_Errors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing locale", `{}`},
		{"wrong type", `{"locale":42}`},
		{"invalid locale", `{"locale":"!!"}`},
		{"not json", `{"locale"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStemAnalyzerFromJSON([]byte(tc.raw)); !errors.Is(err, ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestStemAnalyzer_ConfigRoundTrip(t *testing.T) {
	a, err := NewStemAnalyzer("en")
	if err != nil {
		t.Fatalf("NewStemAnalyzer() failed: %v", err)
	}

	raw, err := a.MarshalConfigJSON()
	if err != nil {
		t.Fatalf("MarshalConfigJSON() failed: %v", err)
	}

	b, err := NewStemAnalyzerFromJSON(raw)
	if err != nil {
		t.Fatalf("re-parse of %s failed: %v", raw, err)
	}

	input := "running"
	if diff := cmp.Diff(drainTokens(t, a, input), drainTokens(t, b, input)); diff != "" {
		t.Errorf("round-tripped analyzer behaves differently (-orig +reparsed):\n%s", diff)
	}
}
