package progression_test

import (
	"testing"

	"github.com/ascendhq/ascendcore/internal/progression"
	"github.com/stretchr/testify/require"
)

func baseInput() progression.Input {
	return progression.Input{
		SkillCurrent: 50,
		NotaGeral:    80,
		Assessment: progression.Assessment{
			Demonstrated: 70,
			Intensity:    0.6,
		},
		Difficulty: progression.Medium,
		Attempts:   1,
	}
}

func TestDelta_ZeroIntensityIsNoOp(t *testing.T) {
	in := baseInput()
	in.Assessment.Intensity = 0
	require.Equal(t, 0, progression.Delta(in))
}

func TestDelta_MinMotionHighScore(t *testing.T) {
	in := baseInput()
	in.NotaGeral = 95
	in.Assessment.Intensity = 0.1 // would otherwise round below 3
	require.GreaterOrEqual(t, progression.Delta(in), 3)
}

func TestDelta_MinMotionLowScore(t *testing.T) {
	in := baseInput()
	in.NotaGeral = 20
	in.Assessment.Intensity = -0.1
	// A regression assessment reports a demonstrated level below current,
	// consistent with the signal the intensity sign is meant to carry.
	in.Assessment.Demonstrated = 30
	require.LessOrEqual(t, progression.Delta(in), -2)
}

func TestDelta_HardDominatesEasy(t *testing.T) {
	hard := baseInput()
	hard.Difficulty = progression.Hard

	easy := baseInput()
	easy.Difficulty = progression.Easy

	dHard := progression.Delta(hard)
	dEasy := progression.Delta(easy)

	require.Greater(t, abs(dHard), abs(dEasy))
}

func TestDelta_DampsAboveNinety(t *testing.T) {
	low := baseInput()
	low.SkillCurrent = 30

	high := baseInput()
	high.SkillCurrent = 95

	require.Greater(t, abs(progression.Delta(low)), abs(progression.Delta(high)))
}

func TestDelta_Deterministic(t *testing.T) {
	in := baseInput()
	require.Equal(t, progression.Delta(in), progression.Delta(in))
}

func TestDelta_MoreAttemptsShrinksMagnitude(t *testing.T) {
	first := baseInput()
	first.Attempts = 1

	third := baseInput()
	third.Attempts = 3

	require.GreaterOrEqual(t, abs(progression.Delta(first)), abs(progression.Delta(third)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
