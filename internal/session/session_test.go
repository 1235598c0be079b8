package session

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
)

func TestNewSession(t *testing.T) {
	settings := config.Defaults()
	sess, err := NewSession(settings, NewFixedGenerator("s-42"), rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	want, err := config.NewPhaseTimings(settings)
	require.NoError(t, err)

	assert.Equal(t, "s-42", sess.SubjectID)
	assert.Equal(t, want, sess.Timings)
	assert.Equal(t, 256, sess.MaskSize)
	assert.Equal(t, 3, sess.Practice)
	assert.Equal(t, 3, sess.Main)
	assert.Contains(t, []design.KeyAssignment{
		{Cat: "f", Dog: "j"},
		{Cat: "j", Dog: "f"},
	}, sess.Keys)
}

func TestNewSession_InvalidTimings(t *testing.T) {
	settings := config.Defaults()
	settings.Timing.Stimulus = 0.001

	_, err := NewSession(settings, NewFixedGenerator("s"), rand.New(rand.NewPCG(1, 1)))
	assert.True(t, config.IsConfigError(err))
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, UUIDv7Generator{}.Generate())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestNewScreens_FollowKeyAssignment(t *testing.T) {
	keys := [2]string{"f", "j"}

	s := NewScreens(design.AssignKeys(0, keys), keys)
	assert.Contains(t, s.KeyMapping, "If the image is a Cat press the F key. If the image is a Dog press the J key.")
	assert.Contains(t, s.PracticeOver, "Remember, if the image is a Cat press the F key.")

	s = NewScreens(design.AssignKeys(1, keys), keys)
	assert.Contains(t, s.KeyMapping, "If the image is a Dog press the F key. If the image is a Cat press the J key.")
	assert.Contains(t, s.PracticeOver, "if the image is a Dog press the F key")
}
