package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Operations(t *testing.T) {
	a := New("os", "requests", "proj")
	b := New("proj", "util")

	assert.True(t, a.Has("os"))
	assert.False(t, a.Has("util"))
	assert.Equal(t, 3, a.Len())

	assert.Equal(t, []string{"os", "proj", "requests", "util"}, a.Union(b).Sorted())
	assert.Equal(t, []string{"proj"}, a.Intersect(b).Sorted())
	assert.Equal(t, []string{"os", "requests"}, a.Difference(b).Sorted())
}

func TestSet_DuplicatesCollapse(t *testing.T) {
	s := FromSlice([]string{"a", "b", "a", "a"})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, New("b", "a"), s)
}

func TestSet_NilIsEmpty(t *testing.T) {
	var s Set
	assert.False(t, s.Has("x"))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Sorted())
	assert.Equal(t, []string{"x"}, New("x").Difference(s).Sorted())
}
