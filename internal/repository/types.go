// Package repository declares the domain types shared across the engine
// and the port (the Repository interface) the core consumes for
// persistence. Concrete storage is an external concern (spec §1 non-goal);
// this package only fixes the vocabulary every other component agrees on.
package repository

import (
	"time"

	"github.com/google/uuid"
)

// Track is the coarse role classification inferred from a profile's career
// goal.
type Track string

const (
	TrackFrontend  Track = "frontend"
	TrackBackend   Track = "backend"
	TrackFullstack Track = "fullstack"
	TrackData      Track = "data"
	TrackOther     Track = "other"
)

// Profile is a user's identity inside the core.
type Profile struct {
	ProfileID     uuid.UUID
	CareerGoal    string
	TechSkills    map[string]int
	SoftSkills    map[string]int
	StrongSkills  map[string]int
}

// Category is the kind of challenge generated.
type Category string

const (
	CategoryCode       Category = "code"
	CategoryDailyTask  Category = "daily-task"
	CategoryOrganization Category = "organization"
)

// DifficultyLevel is one of the three allowed literals.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Difficulty bundles the literal level with its time budget.
type Difficulty struct {
	Level            DifficultyLevel
	TimeLimitMinutes int
}

// ChallengeStatus tracks a challenge's lifecycle.
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeExpired   ChallengeStatus = "expired"
)

// Challenge is a generated assignment. Description and TemplateCode are
// opaque, category-shaped JSON documents (spec §6); the core never
// destructures them beyond what generation/evaluation require.
type Challenge struct {
	ChallengeID     uuid.UUID
	ProfileID       uuid.UUID
	Category        Category
	Title           string
	Description     map[string]any
	Difficulty      Difficulty
	TargetSkill     string
	AffectedSkills  []string
	TemplateCode    any
	Status          ChallengeStatus
	CreatedAt       time.Time
}

// SubmissionType is the discriminator of the tagged submission union.
type SubmissionType string

const (
	SubmissionCode       SubmissionType = "codigo"
	SubmissionFreeText   SubmissionType = "texto_livre"
	SubmissionPlanning   SubmissionType = "planejamento"
)

// SubmissionStatus tracks a submission's lifecycle.
type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionScored  SubmissionStatus = "scored"
	SubmissionFailed  SubmissionStatus = "failed"
)

// Submission is a user's attempt at a challenge. Exactly one of Files,
// Content, FormData is populated, selected by Type.
type Submission struct {
	SubmissionID   uuid.UUID
	ProfileID      uuid.UUID
	ChallengeID    uuid.UUID
	Type           SubmissionType
	Files          map[string]string            // code: path -> content
	Content        string                       // texto_livre
	FormData       map[string]map[string]any    // planejamento: section_id -> field_id -> value
	TimeTakenSec   int
	CommitMessage  string
	Notes          string
	Status         SubmissionStatus
	SubmittedAt    time.Time
}

// SkillsProgression is the delta/new-value/reasoning bundle produced by one
// evaluation.
type SkillsProgression struct {
	Deltas        map[string]int
	NewValues     map[string]int
	SkillsUpdated []string
	Reasoning     map[string]string
}

// Feedback is the scored outcome of a submission.
type Feedback struct {
	SubmissionID      uuid.UUID
	Score             int
	Metrics           map[string]any
	FeedbackText      string
	SkillsProgression SkillsProgression
}

// ProgressionLogEntry is the optional append-only history record.
type ProgressionLogEntry struct {
	ProfileID    uuid.UUID
	SubmissionID uuid.UUID
	Timestamp    time.Time
	Changed      map[string]SkillChange
	Trigger      string
}

// SkillChange is one skill's before/after/delta for a log entry.
type SkillChange struct {
	From  int
	To    int
	Delta int
}
