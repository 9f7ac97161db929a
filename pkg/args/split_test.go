package args

import (
	"slices"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "perform <@123> warn", []string{"perform", "<@123>", "warn"}},
		{"quoted span", `say "hello world" now`, []string{"say", "hello world", "now"}},
		{"extra whitespace", "  a\t b \n c  ", []string{"a", "b", "c"}},
		{"escaped quote inside span", `say "a \"b\" c"`, []string{"say", `a \"b\" c`}},
		{"escaped space", `one\ two three`, []string{`one\ two`, "three"}},
		{"empty", "", nil},
		{"blank", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAll(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("SplitAll(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitIsRestartable(t *testing.T) {
	seq := Split(`say "hello world" now`)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Fatalf("second pass = %q, first = %q", second, first)
	}
}

func TestSplitStopsEarly(t *testing.T) {
	var got []string
	for tok := range Split("a b c d") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("got %q", got)
	}
}
