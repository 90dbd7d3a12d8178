package overload

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/calltip/internal/catalog"
)

func keywordWith(n int) *catalog.Keyword {
	kw := &catalog.Keyword{Name: "kw"}
	for i := 0; i < n; i++ {
		kw.Overloads = append(kw.Overloads, catalog.Overload{ReturnType: fmt.Sprintf("t%d", i)})
	}
	return kw
}

func TestCursorZeroValue(t *testing.T) {
	var c Cursor

	assert.False(t, c.Active())
	assert.Zero(t, c.Count())
	assert.Nil(t, c.Keyword())

	_, err := c.Current()
	assert.ErrorIs(t, err, ErrNoOverloads)

	c.Advance()
	c.Retreat()
	c.Step(RegionNext)
	assert.Zero(t, c.Index())
	assert.Zero(t, c.Count())
}

func TestCursorActivate(t *testing.T) {
	var c Cursor
	kw := keywordWith(3)

	c.Advance()
	c.Activate(kw)

	assert.True(t, c.Active())
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 0, c.Index())
	assert.Same(t, kw, c.Keyword())

	ov, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, "t0", ov.ReturnType)
}

func TestCursorActivateResetsIndex(t *testing.T) {
	var c Cursor
	c.Activate(keywordWith(3))
	c.Advance()
	c.Advance()
	require.Equal(t, 2, c.Index())

	c.Activate(keywordWith(2))
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 2, c.Count())
}

func TestCursorActivateNil(t *testing.T) {
	var c Cursor
	c.Activate(keywordWith(2))
	c.Activate(nil)
	assert.False(t, c.Active())
}

func TestCursorAdvanceCycles(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var c Cursor
			c.Activate(keywordWith(n))

			for i := 1; i <= n; i++ {
				c.Advance()
				if i < n {
					assert.Equal(t, i, c.Index())
				}
			}
			assert.Equal(t, 0, c.Index())
		})
	}
}

func TestCursorRetreatInvertsAdvance(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for start := 0; start < n; start++ {
			var c Cursor
			c.Activate(keywordWith(n))
			for i := 0; i < start; i++ {
				c.Advance()
			}
			require.Equal(t, start, c.Index())

			c.Advance()
			c.Retreat()
			assert.Equal(t, start, c.Index(), "n=%d start=%d advance/retreat", n, start)

			c.Retreat()
			c.Advance()
			assert.Equal(t, start, c.Index(), "n=%d start=%d retreat/advance", n, start)
		}
	}
}

func TestCursorRetreatWraps(t *testing.T) {
	var c Cursor
	c.Activate(keywordWith(3))

	c.Retreat()
	assert.Equal(t, 2, c.Index())

	ov, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, "t2", ov.ReturnType)
}

func TestCursorStep(t *testing.T) {
	tests := []struct {
		region Region
		want   int
	}{
		{RegionNeutral, 1},
		{RegionPrev, 0},
		{RegionNext, 2},
		{Region(9), 1},
	}

	for _, tt := range tests {
		t.Run(tt.region.String(), func(t *testing.T) {
			var c Cursor
			c.Activate(keywordWith(3))
			c.Advance()

			c.Step(tt.region)
			assert.Equal(t, tt.want, c.Index())
		})
	}
}

func TestCursorClear(t *testing.T) {
	var c Cursor
	c.Activate(keywordWith(2))
	c.Clear()

	assert.False(t, c.Active())
	assert.Nil(t, c.Keyword())
	_, err := c.Current()
	assert.ErrorIs(t, err, ErrNoOverloads)

	c.Advance()
	assert.Zero(t, c.Count())
}

func TestParseRegion(t *testing.T) {
	for _, r := range []Region{RegionNeutral, RegionPrev, RegionNext} {
		got, err := ParseRegion(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRegion("up")
	assert.Error(t, err)
}
