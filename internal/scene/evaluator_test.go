package scene

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straight(from, to orb.Point, n int) orb.LineString {
	ls := make(orb.LineString, n)
	for i := range ls {
		t := float64(i) / float64(n-1)
		ls[i] = orb.Point{from[0] + t*(to[0]-from[0]), from[1] + t*(to[1]-from[1])}
	}
	return ls
}

func TestEvaluator(t *testing.T) {
	t.Parallel()

	empty, err := NewField(nil, DefaultMotion())
	require.NoError(t, err)

	t.Run("valid path costs its length", func(t *testing.T) {
		t.Parallel()
		e, err := NewEvaluator(empty)
		require.NoError(t, err)
		path := straight(orb.Point{0, 0}, orb.Point{3, 4}, 11)
		assert.True(t, e.Valid(path))
		assert.InDelta(t, 5.0, e.Cost(path), 1e-12)
	})

	t.Run("absent path costs the penalty", func(t *testing.T) {
		t.Parallel()
		e, err := NewEvaluator(empty)
		require.NoError(t, err)
		assert.Equal(t, Penalty, e.Cost(nil))
	})

	t.Run("colliding path costs exactly the penalty", func(t *testing.T) {
		t.Parallel()
		f, err := NewField([]Obstacle{{Center: orb.Point{5, 0}, Radius: 1}}, Motion{})
		require.NoError(t, err)
		e, err := NewEvaluator(f)
		require.NoError(t, err)
		path := straight(orb.Point{0, 0}, orb.Point{10, 0}, 11)
		assert.False(t, e.Valid(path))
		assert.Equal(t, Penalty, e.Cost(path))
	})

	t.Run("sample index is the time index", func(t *testing.T) {
		t.Parallel()
		// The center is at y=10 for t=1 and back near y=0 for t=2.
		m := Motion{Amplitude: 10, Rate: math.Pi / 2}
		f, err := NewField([]Obstacle{{Center: orb.Point{0, 0}, Radius: 1}}, m)
		require.NoError(t, err)
		e, err := NewEvaluator(f)
		require.NoError(t, err)

		// Sample 1 sits at the obstacle's t=1 position.
		hit := orb.LineString{{-20, 0}, {0, 10}, {20, 0}}
		assert.False(t, e.Valid(hit))

		// The same point as sample 2 is checked at t=2, when the center is back near y=0.
		miss := orb.LineString{{-20, 0}, {-20, 5}, {0, 10}}
		assert.True(t, e.Valid(miss))
	})

	t.Run("cost below penalty iff valid", func(t *testing.T) {
		t.Parallel()
		f, err := NewField([]Obstacle{{Center: orb.Point{5, 3}, Radius: 2}}, DefaultMotion())
		require.NoError(t, err)
		e, err := NewEvaluator(f)
		require.NoError(t, err)
		for y := -30.0; y <= 30; y += 2.5 {
			path := straight(orb.Point{0, y}, orb.Point{10, y}, 50)
			c := e.Cost(path)
			if e.Valid(path) {
				assert.Less(t, c, Penalty)
			} else {
				assert.Equal(t, Penalty, c)
			}
		}
	})

	t.Run("nil field is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewEvaluator(nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestSceneValidate(t *testing.T) {
	t.Parallel()

	f, err := NewField(nil, DefaultMotion())
	require.NoError(t, err)
	good := BoundsXY([2]float64{0, 10}, [2]float64{-1, 1})

	tests := []struct {
		name    string
		sc      *Scene
		wantErr bool
	}{
		{"valid", &Scene{Start: orb.Point{0, 0}, End: orb.Point{10, 0}, Bounds: good, Field: f}, false},
		{"flat box along x is allowed", &Scene{Start: orb.Point{0, 0}, End: orb.Point{10, 0}, Bounds: Span(orb.Point{0, 0}, orb.Point{10, 0}), Field: f}, false},
		{"nil scene", nil, true},
		{"nil field", &Scene{Start: orb.Point{0, 0}, End: orb.Point{10, 0}, Bounds: good}, true},
		{"start equals end", &Scene{Start: orb.Point{1, 1}, End: orb.Point{1, 1}, Bounds: good, Field: f}, true},
		{"inverted x bounds", &Scene{Start: orb.Point{0, 0}, End: orb.Point{10, 0}, Bounds: BoundsXY([2]float64{10, 0}, [2]float64{0, 1}), Field: f}, true},
		{"inverted y bounds", &Scene{Start: orb.Point{0, 0}, End: orb.Point{10, 0}, Bounds: BoundsXY([2]float64{0, 10}, [2]float64{1, 0}), Field: f}, true},
		{"point bounds", &Scene{Start: orb.Point{0, 0}, End: orb.Point{10, 0}, Bounds: BoundsXY([2]float64{3, 3}, [2]float64{3, 3}), Field: f}, true},
	}
	for _, tt := range tests {
		err := tt.sc.Validate()
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalid, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}

func TestSpan(t *testing.T) {
	t.Parallel()
	b := Span(orb.Point{5, -2}, orb.Point{1, 7})
	assert.Equal(t, orb.Point{1, -2}, b.Min)
	assert.Equal(t, orb.Point{5, 7}, b.Max)
}
