package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specs(pairs ...any) []FileSpec {
	var out []FileSpec
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, FileSpec{Path: pairs[i].(string), Dependencies: pairs[i+1].([]string)})
	}
	return out
}

func TestGraph_Order(t *testing.T) {
	tests := []struct {
		name  string
		specs []FileSpec
		want  []string
	}{
		{
			name:  "chain declared backwards",
			specs: specs("c", []string{"b"}, "b", []string{"a"}, "a", []string{}),
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "independent keep declaration order",
			specs: specs("z", []string{}, "y", []string{}, "x", []string{}),
			want:  []string{"z", "y", "x"},
		},
		{
			name:  "diamond",
			specs: specs("d", []string{"b", "c"}, "b", []string{"a"}, "c", []string{"a"}, "a", []string{}),
			want:  []string{"a", "b", "c", "d"},
		},
		{
			name:  "unknown dependencies ignored",
			specs: specs("b", []string{"a", "missing.js"}, "a", []string{"../outside"}),
			want:  []string{"a", "b"},
		},
		{
			name:  "paths normalized",
			specs: specs("./src/b.js", []string{"src/a.js"}, "src/a.js", []string{}),
			want:  []string{"src/a.js", "src/b.js"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph(tt.specs)
			order, err := g.Order()
			require.NoError(t, err)
			assert.Equal(t, tt.want, order)
			assert.Nil(t, g.DetectCycle())
		})
	}
}

func TestGraph_OrderRespectsDependencies(t *testing.T) {
	g := NewGraph(specs(
		"app.js", []string{"routes.js", "db.js", "config.js"},
		"routes.js", []string{"controllers.js"},
		"controllers.js", []string{"models.js"},
		"models.js", []string{"db.js"},
		"db.js", []string{"config.js"},
		"config.js", []string{},
		"README.md", []string{"app.js"},
	))

	order, err := g.Order()
	require.NoError(t, err)

	pos := make(map[string]int)
	for i, p := range order {
		pos[p] = i
	}
	for _, n := range g.Nodes() {
		for _, d := range g.Dependencies(n) {
			assert.Less(t, pos[d], pos[n], "%s must follow %s", n, d)
		}
	}
}

func TestGraph_Cycle(t *testing.T) {
	tests := []struct {
		name  string
		specs []FileSpec
		cycle []string
	}{
		{"two nodes", specs("A", []string{"B"}, "B", []string{"A"}), []string{"A", "B", "A"}},
		{"self", specs("A", []string{"A"}), []string{"A", "A"}},
		{"three nodes behind a root", specs("root", []string{}, "x", []string{"z"}, "y", []string{"x"}, "z", []string{"y"}), []string{"x", "z", "y", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph(tt.specs)
			assert.Equal(t, tt.cycle, g.DetectCycle())

			_, err := g.Order()
			assert.ErrorIs(t, err, ErrCycle)
		})
	}
}

func TestGraph_DuplicatePathKeepsFirstPosition(t *testing.T) {
	g := NewGraph([]FileSpec{
		{Path: "a", Description: "first"},
		{Path: "b"},
		{Path: "a", Description: "second"},
	})

	assert.Equal(t, []string{"a", "b"}, g.Nodes())
	spec, ok := g.Spec("a")
	require.True(t, ok)
	assert.Equal(t, "second", spec.Description)
}

func TestGraph_Unknown(t *testing.T) {
	g := NewGraph(specs("a", []string{"b", "ghost", "ghost"}, "b", []string{}))
	assert.Equal(t, map[string][]string{"a": {"ghost"}}, g.Unknown())
	assert.Equal(t, []string{"b"}, g.Dependencies("a"))
}
