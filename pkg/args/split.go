// Package args turns raw command input into typed values: it splits a command
// line into tokens and resolves each token through a registry of per-type
// resolvers, some of which look objects up through a Directory.
package args

import (
	"iter"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// splitPattern matches either a double-quoted span (escapes allowed inside) or
// a run of non-space characters that does not touch an unescaped quote.
var splitPattern = regexp2.MustCompile(`(?<!\\)"(?:\\.|[^"\\])*?"|(?<!")(?:\\.|[^"\s])+(?!")`, regexp2.None)

// Split returns the tokens of text in order. Quoted spans are emitted without
// their surrounding quotes and blank matches are skipped. Escape sequences are
// kept verbatim. Malformed input (an unterminated quote) never fails: the
// scanner emits whatever adjacent runs still match.
//
// The returned sequence is lazy and can be ranged over any number of times.
func Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		m, err := splitPattern.FindStringMatch(text)
		for m != nil && err == nil {
			if tok, ok := trimToken(m.String()); ok {
				if !yield(tok) {
					return
				}
			}
			m, err = splitPattern.FindNextMatch(m)
		}
	}
}

// SplitAll collects Split(text) into a slice.
func SplitAll(text string) []string {
	return slices.Collect(Split(text))
}

func trimToken(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.Trim(s, `"`)
	}
	return s, true
}
