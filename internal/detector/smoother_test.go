package detector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoother_FirstFramePassesThrough(t *testing.T) {
	s := NewSmoother(0.1)
	hand := SyntheticHand(OKPose)

	out := s.Smooth(hand.Points)

	require.Len(t, out, NumLandmarks)
	assert.Equal(t, hand.Points, out)
}

func TestSmoother_StillHandStaysPut(t *testing.T) {
	s := NewSmoother(0.1)
	hand := SyntheticHand(NamastePose)

	var out []Point3D
	for i := 0; i < 10; i++ {
		out = s.Smooth(hand.Points)
	}

	for i := range hand.Points {
		assert.InDelta(t, hand.Points[i].X, out[i].X, 1e-9, "landmark %d x", i)
		assert.InDelta(t, hand.Points[i].Y, out[i].Y, 1e-9, "landmark %d y", i)
		assert.Equal(t, hand.Points[i].Z, out[i].Z, "landmark %d z", i)
	}
}

func TestSmoother_DampsJump(t *testing.T) {
	s := NewSmoother(0.1)
	hand := SyntheticHand(NamastePose)
	s.Smooth(hand.Points)

	moved := make([]Point3D, len(hand.Points))
	copy(moved, hand.Points)
	moved[IndexTip].X += 0.1

	out := s.Smooth(moved)

	assert.Greater(t, out[IndexTip].X, hand.Points[IndexTip].X)
	assert.LessOrEqual(t, out[IndexTip].X, moved[IndexTip].X+1e-9)
}

func TestSmoother_DegenerateInputResets(t *testing.T) {
	s := NewSmoother(0.1)
	hand := SyntheticHand(NamastePose)
	s.Smooth(hand.Points)

	t.Run("short hand", func(t *testing.T) {
		short := hand.Points[:5]
		out := s.Smooth(short)
		assert.Equal(t, short, out)
		assert.Nil(t, s.filters)
	})

	t.Run("nan landmark", func(t *testing.T) {
		s.Smooth(hand.Points)
		bad := make([]Point3D, len(hand.Points))
		copy(bad, hand.Points)
		bad[MiddleTip].Y = math.NaN()

		out := s.Smooth(bad)
		assert.True(t, math.IsNaN(out[MiddleTip].Y))
		assert.Nil(t, s.filters)
	})
}
