package prompt

import (
	"reflect"
	"testing"
)

func TestFilter(t *testing.T) {
	items := []string{"main", "develop", "release/1.0", "origin/Release/2.0"}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query", query: "", want: items},
		{name: "blank query", query: "  ", want: items},
		{name: "substring", query: "lop", want: []string{"develop"}},
		{name: "case insensitive", query: "RELEASE", want: []string{"release/1.0", "origin/Release/2.0"}},
		{name: "no match", query: "hotfix", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestWithout(t *testing.T) {
	got := Without([]string{"main", "develop", "main"}, "main")
	if !reflect.DeepEqual(got, []string{"develop"}) {
		t.Errorf("Without() = %v", got)
	}
	if got := Without(nil, "main"); len(got) != 0 {
		t.Errorf("Without(nil) = %v", got)
	}
}
