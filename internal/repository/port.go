package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the abstract persistence contract the core consumes, per
// spec §6. Every operation is semantically transactional on its own; the
// multi-step writes in the submission evaluator additionally go through
// RunInTransaction so the skill update, submission, feedback, and
// challenge-completion commit (or roll back) together.
type Repository interface {
	GetProfile(ctx context.Context, profileID uuid.UUID) (Profile, error)
	GetTechSkills(ctx context.Context, profileID uuid.UUID) (map[string]int, error)
	GetSoftSkills(ctx context.Context, profileID uuid.UUID) (map[string]int, error)

	// UpdateTechSkills/UpdateSoftSkills replace the stored table wholesale;
	// they never merge with whatever was there before (spec invariant 3).
	UpdateTechSkills(ctx context.Context, profileID uuid.UUID, skills map[string]int) error
	UpdateSoftSkills(ctx context.Context, profileID uuid.UUID, skills map[string]int) error

	ActiveChallenges(ctx context.Context, profileID uuid.UUID) ([]Challenge, error)
	DeactivateActiveChallenges(ctx context.Context, profileID uuid.UUID) error
	CreateChallenge(ctx context.Context, challenge Challenge) error
	GetChallenge(ctx context.Context, challengeID uuid.UUID) (Challenge, error)
	MarkCompleted(ctx context.Context, challengeID uuid.UUID) error

	CreateSubmission(ctx context.Context, submission Submission) (uuid.UUID, error)
	CreateFeedback(ctx context.Context, feedback Feedback) error
	CountAttempts(ctx context.Context, profileID, challengeID uuid.UUID) (int, error)
	AppendProgressionLog(ctx context.Context, entry ProgressionLogEntry) error

	// RunInTransaction wraps fn in a single commit. fn receives a Repository
	// scoped to the transaction; any error returned by fn rolls the whole
	// transaction back.
	RunInTransaction(ctx context.Context, fn func(tx Repository) error) error
}
