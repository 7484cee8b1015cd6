package planner

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathPlanner/internal/opt"
	"pathPlanner/internal/scene"
)

func quickConfig() Config {
	cfg := DefaultConfig()
	cfg.Swarm.Particles = 30
	return cfg
}

func guiRequest(obstacles, iterations int) Request {
	x, y := DefaultBounds(orb.Point{10, 10}, orb.Point{90, 90}, 10)
	return Request{
		Start:      orb.Point{10, 10},
		End:        orb.Point{90, 90},
		Obstacles:  obstacles,
		Iterations: iterations,
		BoundsX:    x,
		BoundsY:    y,
	}
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"negative obstacles", func(r *Request) { r.Obstacles = -1 }},
		{"zero iterations", func(r *Request) { r.Iterations = 0 }},
		{"start equals end", func(r *Request) { r.End = r.Start }},
		{"inverted x bounds", func(r *Request) { r.BoundsX = [2]float64{100, 0} }},
		{"inverted y bounds", func(r *Request) { r.BoundsY = [2]float64{100, 0} }},
	}
	for _, tt := range tests {
		req := guiRequest(2, 10)
		tt.mutate(&req)
		assert.ErrorIs(t, req.Validate(), scene.ErrInvalid, tt.name)
	}
	assert.NoError(t, guiRequest(0, 1).Validate())
}

func TestDefaultBounds(t *testing.T) {
	t.Parallel()

	x, y := DefaultBounds(orb.Point{90, 10}, orb.Point{10, 50}, 10)
	assert.Equal(t, [2]float64{0, 100}, x)
	assert.Equal(t, [2]float64{0, 60}, y)
}

func TestPlan(t *testing.T) {
	t.Parallel()

	t.Run("same seed reproduces the session", func(t *testing.T) {
		t.Parallel()
		plan := func() *Session {
			p, err := New(quickConfig(), rand.New(rand.NewSource(2024)))
			require.NoError(t, err)
			sess, err := p.Plan(context.Background(), guiRequest(2, 15))
			require.NoError(t, err)
			return sess
		}
		a, b := plan(), plan()

		if diff := cmp.Diff(a.Scene.Field.Obstacles(), b.Scene.Field.Obstacles()); diff != "" {
			t.Errorf("fields differ (-a +b):\n%s", diff)
		}
		if diff := cmp.Diff(a.Result, b.Result, cmpopts.IgnoreFields(opt.Result{}, "Duration")); diff != "" {
			t.Errorf("results differ (-a +b):\n%s", diff)
		}
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("session carries scene and history", func(t *testing.T) {
		t.Parallel()
		p, err := New(quickConfig(), rand.New(rand.NewSource(8)))
		require.NoError(t, err)

		var calls int
		p.Observer = func(int, float64) { calls++ }

		sess, err := p.Plan(context.Background(), guiRequest(2, 12))
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, orb.Point{10, 10}, sess.Scene.Start)
		assert.Equal(t, orb.Point{90, 90}, sess.Scene.End)
		assert.GreaterOrEqual(t, sess.Scene.Field.Len(), 1)
		assert.LessOrEqual(t, sess.Scene.Field.Len(), 2)
		assert.Len(t, sess.Result.History, 12)
		assert.Equal(t, 12, calls)
		if sess.Result.Found() {
			assert.Equal(t, sess.Scene.Start, sess.Result.Path[0])
			assert.Equal(t, sess.Scene.End, sess.Result.Path[len(sess.Result.Path)-1])
		}
	})

	t.Run("invalid request", func(t *testing.T) {
		t.Parallel()
		p, err := New(quickConfig(), rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		_, err = p.Plan(context.Background(), guiRequest(-3, 10))
		assert.ErrorIs(t, err, scene.ErrInvalid)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(DefaultConfig(), nil)
	assert.ErrorIs(t, err, scene.ErrInvalid)

	cfg := DefaultConfig()
	cfg.RadiusMin = 20
	_, err = New(cfg, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, scene.ErrInvalid)

	cfg = DefaultConfig()
	cfg.Swarm.Particles = 0
	_, err = New(cfg, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, scene.ErrInvalid)
}
