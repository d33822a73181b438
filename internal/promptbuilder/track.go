package promptbuilder

import (
	"strings"

	"github.com/ascendhq/ascendcore/internal/repository"
)

// InferTrack classifies a career goal into a coarse track by keyword,
// exactly as spec §4.4 requires. Unknown or ambiguous text falls back to
// fullstack.
func InferTrack(careerGoal string) repository.Track {
	goal := strings.ToLower(careerGoal)

	switch {
	case strings.Contains(goal, "frontend"):
		return repository.TrackFrontend
	case strings.Contains(goal, "backend"), strings.Contains(goal, "api"):
		return repository.TrackBackend
	case strings.Contains(goal, "data"), strings.Contains(goal, "etl"), strings.Contains(goal, "pipeline"):
		return repository.TrackData
	case strings.Contains(goal, "fullstack"):
		return repository.TrackFullstack
	default:
		return repository.TrackFullstack
	}
}

// DifficultyBucket buckets a skill level into the difficulty spec §4.4
// prescribes for challenge generation.
func DifficultyBucket(level int) repository.DifficultyLevel {
	switch {
	case level < 40:
		return repository.DifficultyEasy
	case level <= 70:
		return repository.DifficultyMedium
	default:
		return repository.DifficultyHard
	}
}
