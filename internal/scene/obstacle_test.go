package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	start := orb.Point{10, 10}
	end := orb.Point{90, 90}

	t.Run("clearance between accepted obstacles", func(t *testing.T) {
		t.Parallel()
		for seed := int64(1); seed <= 200; seed++ {
			f, err := Generate(5, 5, 15, start, end, DefaultMotion(), rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			require.LessOrEqual(t, f.Len(), 5)
			obs := f.Obstacles()
			for i := range obs {
				for j := i + 1; j < len(obs); j++ {
					d := planar.Distance(obs[i].Center, obs[j].Center)
					assert.Greater(t, d, obs[i].Radius+obs[j].Radius+MinSeparation, "seed %d pair %d,%d", seed, i, j)
				}
			}
		}
	})

	t.Run("placement near the middle of the segment", func(t *testing.T) {
		t.Parallel()
		dir := orb.Point{end[0] - start[0], end[1] - start[1]}
		length := math.Hypot(dir[0], dir[1])
		for seed := int64(1); seed <= 50; seed++ {
			f, err := Generate(2, 5, 15, start, end, DefaultMotion(), rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			require.GreaterOrEqual(t, f.Len(), 1, "first candidate is always accepted")
			for _, o := range f.Obstacles() {
				rel := orb.Point{o.Center[0] - start[0], o.Center[1] - start[1]}
				along := (rel[0]*dir[0] + rel[1]*dir[1]) / (length * length)
				across := (rel[0]*dir[1] - rel[1]*dir[0]) / length
				assert.GreaterOrEqual(t, along, 0.3-1e-9)
				assert.LessOrEqual(t, along, 0.7+1e-9)
				assert.LessOrEqual(t, math.Abs(across), 10+1e-9)
				assert.GreaterOrEqual(t, o.Radius, 5.0)
				assert.LessOrEqual(t, o.Radius, 15.0)
			}
		}
	})

	t.Run("same seed gives the same field", func(t *testing.T) {
		t.Parallel()
		a, err := Generate(2, 5, 15, start, end, DefaultMotion(), rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		b, err := Generate(2, 5, 15, start, end, DefaultMotion(), rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		if diff := cmp.Diff(a.Obstacles(), b.Obstacles()); diff != "" {
			t.Errorf("fields differ (-a +b):\n%s", diff)
		}
	})

	t.Run("zero obstacles", func(t *testing.T) {
		t.Parallel()
		f, err := Generate(0, 5, 15, start, end, DefaultMotion(), rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Equal(t, 0, f.Len())
		assert.False(t, f.Collides(start, 0))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(1))
		cases := map[string]func() error{
			"start equals end": func() error {
				_, err := Generate(1, 5, 15, start, start, DefaultMotion(), rng)
				return err
			},
			"negative count": func() error {
				_, err := Generate(-1, 5, 15, start, end, DefaultMotion(), rng)
				return err
			},
			"zero radius": func() error {
				_, err := Generate(1, 0, 15, start, end, DefaultMotion(), rng)
				return err
			},
			"inverted radius range": func() error {
				_, err := Generate(1, 15, 5, start, end, DefaultMotion(), rng)
				return err
			},
			"nil rng": func() error {
				_, err := Generate(1, 5, 15, start, end, DefaultMotion(), nil)
				return err
			},
			"non-finite motion": func() error {
				_, err := Generate(1, 5, 15, start, end, Motion{Amplitude: math.NaN()}, rng)
				return err
			},
		}
		for name, fn := range cases {
			assert.ErrorIs(t, fn(), ErrInvalid, name)
		}
	})
}

func TestFieldCollides(t *testing.T) {
	t.Parallel()

	t.Run("static obstacle uses radius plus clearance", func(t *testing.T) {
		t.Parallel()
		f, err := NewField([]Obstacle{{Center: orb.Point{0, 0}, Radius: 5}}, Motion{})
		require.NoError(t, err)

		assert.True(t, f.Collides(orb.Point{6.4, 0}, 0))
		assert.False(t, f.Collides(orb.Point{6.5, 0}, 0))
		assert.False(t, f.Collides(orb.Point{0, 7}, 123))
	})

	t.Run("oscillation moves obstacles in y with index phase", func(t *testing.T) {
		t.Parallel()
		m := Motion{Amplitude: 10, Rate: math.Pi / 2}
		f, err := NewField([]Obstacle{
			{Center: orb.Point{0, 0}, Radius: 1},
			{Center: orb.Point{100, 0}, Radius: 1},
		}, m)
		require.NoError(t, err)

		assert.InDelta(t, 10.0, f.CenterAt(0, 1)[1], 1e-9)
		assert.InDelta(t, 0.0, f.CenterAt(0, 1)[0], 1e-12)
		assert.InDelta(t, 10*math.Sin(math.Pi/2+1), f.CenterAt(1, 1)[1], 1e-9)
		assert.Equal(t, 100.0, f.CenterAt(1, 7)[0], "obstacles never move in x")

		assert.True(t, f.Collides(orb.Point{0, 10}, 1))
		assert.False(t, f.Collides(orb.Point{0, 10}, 0))
	})

	t.Run("default motion formula", func(t *testing.T) {
		t.Parallel()
		f, err := NewField([]Obstacle{{Center: orb.Point{3, 4}, Radius: 2}}, DefaultMotion())
		require.NoError(t, err)
		for _, ti := range []int{0, 1, 17, 99} {
			want := 4 + 15*math.Sin(0.05*float64(ti))
			assert.InDelta(t, want, f.CenterAt(0, ti)[1], 1e-12)
		}
	})

	t.Run("query is idempotent", func(t *testing.T) {
		t.Parallel()
		f, err := Generate(2, 5, 15, orb.Point{10, 10}, orb.Point{90, 90}, DefaultMotion(), rand.New(rand.NewSource(9)))
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 500; i++ {
			p := orb.Point{rng.Float64() * 100, rng.Float64() * 100}
			ti := rng.Intn(200)
			assert.Equal(t, f.Collides(p, ti), f.Collides(p, ti))
		}
	})

	t.Run("nil field never collides", func(t *testing.T) {
		t.Parallel()
		var f *Field
		assert.False(t, f.Collides(orb.Point{0, 0}, 0))
		assert.Equal(t, 0, f.Len())
	})
}

func TestNewField(t *testing.T) {
	t.Parallel()

	_, err := NewField([]Obstacle{{Center: orb.Point{0, 0}, Radius: 0}}, DefaultMotion())
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = NewField([]Obstacle{{Center: orb.Point{math.Inf(1), 0}, Radius: 1}}, DefaultMotion())
	assert.ErrorIs(t, err, ErrInvalid)

	src := []Obstacle{{Center: orb.Point{1, 2}, Radius: 3}}
	f, err := NewField(src, DefaultMotion())
	require.NoError(t, err)
	src[0].Radius = 100
	assert.Equal(t, []float64{3}, f.Radii(), "field keeps its own copy")
	assert.Equal(t, []orb.Point{{1, 2}}, f.Centers())
}
