package cli

import (
	"reflect"
	"testing"
)

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		want     []string
	}{
		{
			"identical documents",
			"a\nb\n",
			"a\nb\n",
			[]string{"  a", "  b"},
		},
		{
			"changed line",
			"a\nold\nc\n",
			"a\nnew\nc\n",
			[]string{"  a", "- old", "+ new", "  c"},
		},
		{
			"added line",
			"a\nc\n",
			"a\nb\nc\n",
			[]string{"  a", "+ b", "  c"},
		},
		{
			"removed line",
			"a\nb\nc\n",
			"a\nc\n",
			[]string{"  a", "- b", "  c"},
		},
		{
			"completely different",
			"x\n",
			"y\n",
			[]string{"- x", "+ y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diffLines(tt.actual, tt.expected)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("diffLines = %q, want %q", got, tt.want)
			}
		})
	}
}
