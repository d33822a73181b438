// Package progression implements the deterministic per-skill delta formula
// described in spec §4.3: a bounded integer nudge derived from how the
// submission's demonstrated level compares to the user's current level,
// scaled by difficulty, attempts, and a learning-curve factor that hardens
// gains above skill level 70.
package progression

import "math"

// Difficulty is one of the three challenge difficulty literals.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var difficultyWeight = map[Difficulty]float64{
	Easy:   0.7,
	Medium: 1.0,
	Hard:   1.3,
}

// Assessment is the LLM's per-skill judgement for one submission.
type Assessment struct {
	Demonstrated int     // skill_level_demonstrated, 0-100
	Intensity    float64 // progression_intensity, in [-1,1]
	Reasoning    string
}

// Input bundles everything the formula needs for one skill.
type Input struct {
	SkillCurrent int // current skill value, 0-100
	NotaGeral    int // overall submission score, 0-100
	Assessment   Assessment
	Difficulty   Difficulty
	Attempts     int // >= 1
}

// Delta computes the integer delta to add to SkillCurrent (the caller clamps
// the sum to [0,100]; Delta itself never clamps the result it returns).
func Delta(in Input) int {
	gap := float64(in.Assessment.Demonstrated - in.SkillCurrent)
	weight := difficultyWeight[in.Difficulty]
	if weight == 0 {
		weight = difficultyWeight[Medium]
	}

	curve := 1 / (1 + math.Exp((float64(in.SkillCurrent)-70)/10))

	attempts := in.Attempts
	if attempts < 1 {
		attempts = 1
	}
	attemptPenalty := math.Max(0.6, 1-0.1*float64(attempts-1))

	var scoreFactor float64
	intensity := in.Assessment.Intensity
	if in.NotaGeral < 50 {
		scoreFactor = (float64(in.NotaGeral) - 50) / 50
		if intensity < 0 {
			scoreFactor *= 1 + math.Abs(intensity)
		}
	} else {
		switch {
		case in.NotaGeral >= 90:
			scoreFactor = 2.0
		case in.NotaGeral >= 75:
			scoreFactor = 1.5
		case in.NotaGeral >= 60:
			scoreFactor = 1.0
		default:
			scoreFactor = 0.6
		}
	}

	raw := gap * intensity * scoreFactor * weight * curve * attemptPenalty / 10

	// Minimum-motion guarantees.
	if in.NotaGeral >= 90 && raw > 0 && raw < 3 {
		raw = 3
	}
	if in.NotaGeral < 40 && raw < 0 && raw > -2 {
		raw = -2
	}

	return int(math.Round(raw))
}
