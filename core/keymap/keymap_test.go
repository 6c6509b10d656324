package keymap

import (
	"testing"

	"tablediff/core/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		source        []string
		target        []string
		want          []Pair
		droppedSource []string
		droppedTarget []string
	}{
		{
			name:   "exact match beats position",
			source: []string{"A", "B"},
			target: []string{"B", "A"},
			want:   []Pair{{"A", "A"}, {"B", "B"}},
		},
		{
			name:   "exact, case-insensitive then positional",
			source: []string{"A", "B", "C"},
			target: []string{"b", "X", "A"},
			want:   []Pair{{"A", "A"}, {"B", "b"}, {"C", "X"}},
		},
		{
			name:   "positional fallback",
			source: []string{"cust_id", "region"},
			target: []string{"customer", "area"},
			want:   []Pair{{"cust_id", "customer"}, {"region", "area"}},
		},
		{
			name:          "longer source drops leftovers",
			source:        []string{"id", "a", "b"},
			target:        []string{"ID"},
			want:          []Pair{{"id", "ID"}},
			droppedSource: []string{"a", "b"},
		},
		{
			name:          "longer target drops leftovers",
			source:        []string{"k"},
			target:        []string{"x", "K", "y"},
			want:          []Pair{{"k", "K"}},
			droppedTarget: []string{"x", "y"},
		},
		{
			name:   "exact match takes precedence over earlier fold match",
			source: []string{"Id", "id"},
			target: []string{"id", "ID"},
			want:   []Pair{{"Id", "ID"}, {"id", "id"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Resolve(tt.source, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Pairs)
			assert.Equal(t, tt.droppedSource, m.DroppedSource)
			assert.Equal(t, tt.droppedTarget, m.DroppedTarget)
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	first, err := Resolve([]string{"a", "B", "c"}, []string{"C", "b", "z"})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Resolve([]string{"a", "B", "c"}, []string{"C", "b", "z"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveEmpty(t *testing.T) {
	_, err := Resolve(nil, nil)
	assert.ErrorIs(t, err, errs.ErrEmptyMapping)

	_, err = Resolve([]string{"a"}, nil)
	assert.ErrorIs(t, err, errs.ErrEmptyMapping)

	_, err = Resolve(nil, []string{"a"})
	assert.ErrorIs(t, err, errs.ErrEmptyMapping)
}

func TestResolveRejectsDuplicates(t *testing.T) {
	_, err := Resolve([]string{"a", "a"}, []string{"a", "b"})
	assert.ErrorIs(t, err, errs.ErrEmptyMapping)
}

func TestMappingAccessors(t *testing.T) {
	m, err := Resolve([]string{"a", "b", "c"}, []string{"B", "A"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, m.SourceColumns())
	assert.Equal(t, []string{"A", "B"}, m.TargetColumns())
	assert.Equal(t, []string{"source:c"}, m.Dropped())
}
