package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLastWins(t *testing.T) {
	merged := Merge(map[string]string{"x": "1", "y": "a"}, map[string]string{"x": "2"})

	assert.Equal(t, map[string]string{"x": "2", "y": "a"}, merged)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge())
	assert.Empty(t, Merge(nil, nil))
}

func TestSubstitute(t *testing.T) {
	vars := MapLookup(map[string]string{"x": "10"})

	assert.Equal(t, "cost is 10", Substitute("cost is $x$", vars))
	assert.Equal(t, "cost is $x$", Substitute("cost is $x$", MapLookup(map[string]string{})))
	assert.Equal(t, "cost is $x$", Substitute("cost is $x$", nil))
}

func TestSubstituteIsSinglePass(t *testing.T) {
	vars := MapLookup(map[string]string{
		"a": "$b$",
		"b": "deep",
	})

	assert.Equal(t, "$b$ and deep", Substitute("$a$ and $b$", vars))
}

func TestSubstituteEveryOccurrence(t *testing.T) {
	vars := MapLookup(map[string]string{"x": "1", "y": "2"})

	assert.Equal(t, "1+1=2 $z$", Substitute("$x$+$x$=$y$ $z$", vars))
	// "$x$y$" holds one reference; the trailing "y$" is plain text.
	assert.Equal(t, "1y$", Substitute("$x$y$", vars))
}

func TestChain(t *testing.T) {
	first := MapLookup(map[string]string{"x": "first"})
	second := MapLookup(map[string]string{"x": "second", "y": "second"})

	lookup := Chain(first, nil, second)

	v, ok := lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = lookup("y")
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	_, ok = lookup("z")
	assert.False(t, ok)
}

func TestResolveScalar(t *testing.T) {
	vars := map[string]string{"@tier1cost1": "360", "mult": "2"}

	assert.Equal(t, "360", ResolveScalar("@tier1cost1", vars))
	assert.Equal(t, "x2", ResolveScalar("x$mult$", vars))
	assert.Equal(t, "@missing", ResolveScalar("@missing", vars))
}

func TestReferenceNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ReferenceNames("$a$ then $b$"))
	assert.Nil(t, ReferenceNames("nothing here"))
}
