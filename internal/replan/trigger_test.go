package replan

import (
	"context"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathPlanner/internal/planner"
	"pathPlanner/internal/scene"
)

func newTrigger(t *testing.T, seed int64) *Trigger {
	t.Helper()
	cfg := planner.DefaultConfig()
	cfg.Swarm.Particles = 30
	p, err := planner.New(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	tr := New(p)
	tr.Iterations = 20
	return tr
}

// movingField returns a field whose single obstacle passes (50, 15) at t=31.
func movingField(t *testing.T) *scene.Field {
	t.Helper()
	f, err := scene.NewField([]scene.Obstacle{{Center: orb.Point{50, 0}, Radius: 5}}, scene.DefaultMotion())
	require.NoError(t, err)
	return f
}

func TestTickContinue(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	d, err := tr.Tick(context.Background(), orb.Point{0, 0}, 31, orb.Point{100, 0}, movingField(t))
	require.NoError(t, err)
	assert.Equal(t, Continue, d.Action)
	assert.Nil(t, d.Session)
}

func TestTickReplan(t *testing.T) {
	t.Parallel()

	field := movingField(t)
	pos := orb.Point{50, 15}
	goal := orb.Point{100, 30}
	require.True(t, field.Collides(pos, 31))

	tr := newTrigger(t, 4)
	d, err := tr.Tick(context.Background(), pos, 31, goal, field)
	require.NoError(t, err)
	require.Equal(t, Replan, d.Action)
	require.NotNil(t, d.Session)

	res := d.Session.Result
	require.True(t, res.Found())
	assert.Equal(t, pos, res.Path[0])
	assert.Equal(t, goal, res.Path[len(res.Path)-1])
	assert.Less(t, res.Cost, scene.Penalty)
	assert.Len(t, res.History, 20)

	assert.Same(t, field, d.Session.Scene.Field, "reuse keeps the live field")
	assert.Equal(t, scene.Span(pos, goal), d.Session.Scene.Bounds)
}

func TestTickFatal(t *testing.T) {
	t.Parallel()

	static, err := scene.NewField([]scene.Obstacle{{Center: orb.Point{50, 0}, Radius: 5}}, scene.Motion{})
	require.NoError(t, err)

	tr := newTrigger(t, 9)
	tr.Iterations = 3
	d, err := tr.Tick(context.Background(), orb.Point{50, 0}, 7, orb.Point{80, 10}, static)
	require.NoError(t, err)
	assert.Equal(t, Fatal, d.Action)
	require.NotNil(t, d.Session)
	assert.False(t, d.Session.Result.Found())
	assert.Equal(t, -1, d.Session.Result.Iteration)
}

func TestTickRegenerate(t *testing.T) {
	t.Parallel()

	field := movingField(t)
	pos := orb.Point{50, 15}
	goal := orb.Point{100, 30}

	tr := newTrigger(t, 12)
	tr.Policy = RegenerateField
	d, err := tr.Tick(context.Background(), pos, 31, goal, field)
	require.NoError(t, err)
	assert.NotEqual(t, Continue, d.Action)
	require.NotNil(t, d.Session)

	sc := d.Session.Scene
	assert.NotSame(t, field, sc.Field)
	assert.Equal(t, field.Len(), sc.Field.Len(), "first candidate is always accepted")
	assert.Equal(t, pos, sc.Start)
	assert.Equal(t, goal, sc.End)
	if d.Action == Replan {
		assert.Equal(t, pos, d.Session.Result.Path[0])
	}
}

func TestTickErrors(t *testing.T) {
	t.Parallel()

	field := movingField(t)
	pos := orb.Point{50, 15}

	_, err := New(nil).Tick(context.Background(), pos, 31, orb.Point{100, 30}, field)
	assert.ErrorIs(t, err, scene.ErrInvalid)

	for _, policy := range []FieldPolicy{ReuseField, RegenerateField} {
		tr := newTrigger(t, 1)
		tr.Policy = policy
		_, err := tr.Tick(context.Background(), pos, 31, pos, field)
		assert.ErrorIs(t, err, scene.ErrInvalid, policy.String())
	}

	tr := newTrigger(t, 1)
	tr.Policy = FieldPolicy(42)
	_, err = tr.Tick(context.Background(), pos, 31, orb.Point{100, 30}, field)
	assert.ErrorIs(t, err, scene.ErrInvalid)
}

func TestParseFieldPolicy(t *testing.T) {
	t.Parallel()

	for _, p := range []FieldPolicy{ReuseField, RegenerateField} {
		got, err := ParseFieldPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParseFieldPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ReuseField, got)

	_, err = ParseFieldPolicy("random")
	assert.ErrorIs(t, err, scene.ErrInvalid)

	assert.Equal(t, "Action(7)", Action(7).String())
	assert.Equal(t, "replan", Replan.String())
}
