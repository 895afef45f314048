package ngram

import (
	"errors"
	"testing"

	"github.com/d4l3k/messagediff"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		line     string
		delim    rune
		expected []string
	}{
		{"a b c", ' ', []string{"a", "b", "c"}},
		{"  a   b c ", ' ', []string{"a", "b", "c"}},
		{"a b c\r", ' ', []string{"a", "b", "c"}},
		{"The cat , sat .", ' ', []string{"The", "cat", ",", "sat", "."}},
		{"a|b||c", '|', []string{"a", "b", "c"}},
		{"a b|c", '|', []string{"a b", "c"}},
		{"", ' ', []string{}},
		{"   ", ' ', []string{}},
	}

	for _, tc := range testCases {
		got := Tokenize(tc.line, tc.delim)
		if len(got) == 0 && len(tc.expected) == 0 {
			continue
		}
		if diff, equal := messagediff.PrettyDiff(tc.expected, got); !equal {
			t.Errorf("Tokenize(%q):\n%s", tc.line, diff)
		}
	}
}

func TestExtract(t *testing.T) {
	testCases := []struct {
		description string
		line        string
		n           int
		expected    []string
		wantErr     bool
	}{
		{"exact", "mortgages had lured borrowers and", 5, []string{"mortgages", "had", "lured", "borrowers", "and"}, false},
		{"extra tokens ignored", "a b c d", 3, []string{"a", "b", "c"}, false},
		{"double spaces", "a  b c", 3, []string{"a", "b", "c"}, false},
		{"too short", "a b", 3, nil, true},
		{"empty", "", 1, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, err := Extract(tc.line, tc.n, DefaultDelimiter)
			if tc.wantErr {
				if !errors.Is(err, ErrShortNGram) {
					t.Fatalf("error = %v, want ErrShortNGram", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff, equal := messagediff.PrettyDiff(tc.expected, got); !equal {
				t.Errorf("tokens mismatch:\n%s", diff)
			}
		})
	}
}

func TestSuffixes(t *testing.T) {
	expected := []string{
		"mortgages had lured borrowers and",
		"had lured borrowers and",
		"lured borrowers and",
		"borrowers and",
		"and",
	}
	tokens := Tokenize("mortgages  had lured borrowers and ", ' ')
	if diff, equal := messagediff.PrettyDiff(expected, Suffixes(tokens, ' ')); !equal {
		t.Errorf("suffix mismatch:\n%s", diff)
	}

	if got := Suffixes(nil, ' '); got != nil {
		t.Errorf("Suffixes(nil) = %v, want nil", got)
	}

	multi := Suffixes([]string{"a", "b"}, '·')
	if multi[0] != "a·b" || multi[1] != "b" {
		t.Errorf("multi-byte delimiter suffixes = %q", multi)
	}
}
