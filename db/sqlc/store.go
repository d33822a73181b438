// db/sqlc/store.go
package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ascendhq/ascendcore/internal/repository"
)

// Store provides all functions to execute db queries and transactions, the
// same shape as the teacher's db/sqlc/store.go, now implementing
// repository.Repository directly instead of exposing sqlc rows to callers.
type Store struct {
	*Queries
	dbpool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(dbpool *pgxpool.Pool) *Store {
	return &Store{
		dbpool:  dbpool,
		Queries: New(dbpool),
	}
}

// execTx executes fn inside a single database transaction, matching the
// teacher's execTx helper (db/sqlc/store.go).
func (s *Store) execTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.dbpool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// RunInTransaction implements repository.Repository by running fn against a
// Store bound to the transaction's Queries, so every repository.Repository
// method fn calls on its tx argument participates in the same commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return s.execTx(ctx, func(q *Queries) error {
		return fn(&Store{Queries: q, dbpool: s.dbpool})
	})
}

func toUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}

func marshalJSON(v any) []byte {
	if v == nil {
		return []byte("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

func unmarshalJSONMap(raw []byte, v any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, v)
}

// GetProfile implements repository.Repository.
func (s *Store) GetProfile(ctx context.Context, profileID uuid.UUID) (repository.Profile, error) {
	row, err := s.Queries.GetProfile(ctx, toUUID(profileID))
	if err != nil {
		return repository.Profile{}, repository.Wrap(repository.KindRepositoryFailure, "get profile failed", err)
	}
	p := repository.Profile{
		ProfileID:  fromUUID(row.ID),
		CareerGoal: row.CareerGoal.String,
	}
	unmarshalJSONMap(row.TechSkills, &p.TechSkills)
	unmarshalJSONMap(row.SoftSkills, &p.SoftSkills)
	unmarshalJSONMap(row.StrongSkills, &p.StrongSkills)
	return p, nil
}

// GetTechSkills implements repository.Repository.
func (s *Store) GetTechSkills(ctx context.Context, profileID uuid.UUID) (map[string]int, error) {
	p, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return p.TechSkills, nil
}

// GetSoftSkills implements repository.Repository.
func (s *Store) GetSoftSkills(ctx context.Context, profileID uuid.UUID) (map[string]int, error) {
	p, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return p.SoftSkills, nil
}

// UpdateTechSkills implements repository.Repository.
func (s *Store) UpdateTechSkills(ctx context.Context, profileID uuid.UUID, skills map[string]int) error {
	err := s.Queries.UpdateTechSkills(ctx, UpdateTechSkillsParams{
		TechSkills: marshalJSON(skills),
		ID:         toUUID(profileID),
	})
	if err != nil {
		return repository.Wrap(repository.KindRepositoryFailure, "update tech skills failed", err)
	}
	return nil
}

// UpdateSoftSkills implements repository.Repository.
func (s *Store) UpdateSoftSkills(ctx context.Context, profileID uuid.UUID, skills map[string]int) error {
	err := s.Queries.UpdateSoftSkills(ctx, UpdateSoftSkillsParams{
		SoftSkills: marshalJSON(skills),
		ID:         toUUID(profileID),
	})
	if err != nil {
		return repository.Wrap(repository.KindRepositoryFailure, "update soft skills failed", err)
	}
	return nil
}

func rowToChallenge(row Challenge) repository.Challenge {
	ch := repository.Challenge{
		ChallengeID:      fromUUID(row.ID),
		ProfileID:        fromUUID(row.ProfileID),
		Category:         repository.Category(row.Category),
		Title:            row.Title,
		Status:           repository.ChallengeStatus(row.Status),
		TargetSkill:      row.TargetSkill,
		Difficulty: repository.Difficulty{
			Level:            repository.DifficultyLevel(row.DifficultyLevel),
			TimeLimitMinutes: int(row.TimeLimitMinutes),
		},
		CreatedAt: row.CreatedAt.Time,
	}
	unmarshalJSONMap(row.Description, &ch.Description)
	unmarshalJSONMap(row.AffectedSkills, &ch.AffectedSkills)
	if len(row.TemplateCode) > 0 {
		unmarshalJSONMap(row.TemplateCode, &ch.TemplateCode)
	}
	return ch
}

// ActiveChallenges implements repository.Repository.
func (s *Store) ActiveChallenges(ctx context.Context, profileID uuid.UUID) ([]repository.Challenge, error) {
	rows, err := s.Queries.ActiveChallengesByProfile(ctx, toUUID(profileID))
	if err != nil {
		return nil, repository.Wrap(repository.KindRepositoryFailure, "active challenges query failed", err)
	}
	out := make([]repository.Challenge, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToChallenge(row))
	}
	return out, nil
}

// DeactivateActiveChallenges implements repository.Repository.
func (s *Store) DeactivateActiveChallenges(ctx context.Context, profileID uuid.UUID) error {
	if err := s.Queries.DeactivateActiveChallenges(ctx, toUUID(profileID)); err != nil {
		return repository.Wrap(repository.KindRepositoryFailure, "deactivate challenges failed", err)
	}
	return nil
}

// CreateChallenge implements repository.Repository.
func (s *Store) CreateChallenge(ctx context.Context, ch repository.Challenge) error {
	id := ch.ChallengeID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := ch.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err := s.Queries.CreateChallenge(ctx, CreateChallengeParams{
		ID:               toUUID(id),
		ProfileID:        toUUID(ch.ProfileID),
		Category:         string(ch.Category),
		Title:            ch.Title,
		Description:      marshalJSON(ch.Description),
		DifficultyLevel:  string(ch.Difficulty.Level),
		TimeLimitMinutes: int32(ch.Difficulty.TimeLimitMinutes),
		TargetSkill:      ch.TargetSkill,
		AffectedSkills:   marshalJSON(ch.AffectedSkills),
		TemplateCode:     marshalJSON(ch.TemplateCode),
		Status:           string(ch.Status),
		CreatedAt:         pgtype.Timestamptz{Time: createdAt, Valid: true},
	})
	if err != nil {
		return repository.Wrap(repository.KindRepositoryFailure, "create challenge failed", err)
	}
	return nil
}

// GetChallenge implements repository.Repository.
func (s *Store) GetChallenge(ctx context.Context, challengeID uuid.UUID) (repository.Challenge, error) {
	row, err := s.Queries.GetChallenge(ctx, toUUID(challengeID))
	if err != nil {
		return repository.Challenge{}, repository.Wrap(repository.KindNotFound, "challenge not found", err)
	}
	return rowToChallenge(row), nil
}

// MarkCompleted implements repository.Repository.
func (s *Store) MarkCompleted(ctx context.Context, challengeID uuid.UUID) error {
	if err := s.Queries.MarkChallengeCompleted(ctx, toUUID(challengeID)); err != nil {
		return repository.Wrap(repository.KindRepositoryFailure, "mark challenge completed failed", err)
	}
	return nil
}

// CreateSubmission implements repository.Repository.
func (s *Store) CreateSubmission(ctx context.Context, sub repository.Submission) (uuid.UUID, error) {
	id := sub.SubmissionID
	if id == uuid.Nil {
		id = uuid.New()
	}
	submittedAt := sub.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	var files, formData []byte
	var content pgtype.Text
	switch sub.Type {
	case repository.SubmissionCode:
		files = marshalJSON(sub.Files)
		content = pgtype.Text{String: sub.Content, Valid: sub.Content != ""}
	case repository.SubmissionFreeText:
		content = pgtype.Text{String: sub.Content, Valid: true}
	case repository.SubmissionPlanning:
		formData = marshalJSON(sub.FormData)
	}

	row, err := s.Queries.CreateSubmission(ctx, CreateSubmissionParams{
		ID:            toUUID(id),
		ProfileID:     toUUID(sub.ProfileID),
		ChallengeID:   toUUID(sub.ChallengeID),
		Type:          string(sub.Type),
		Files:         files,
		Content:       content,
		FormData:      formData,
		TimeTakenSec:  int32(sub.TimeTakenSec),
		CommitMessage: pgtype.Text{String: sub.CommitMessage, Valid: sub.CommitMessage != ""},
		Notes:         pgtype.Text{String: sub.Notes, Valid: sub.Notes != ""},
		Status:        string(sub.Status),
		SubmittedAt:   pgtype.Timestamptz{Time: submittedAt, Valid: true},
	})
	if err != nil {
		return uuid.Nil, repository.Wrap(repository.KindRepositoryFailure, "create submission failed", err)
	}
	return fromUUID(row), nil
}

// CreateFeedback implements repository.Repository.
func (s *Store) CreateFeedback(ctx context.Context, fb repository.Feedback) error {
	err := s.Queries.CreateFeedback(ctx, CreateFeedbackParams{
		SubmissionID:      toUUID(fb.SubmissionID),
		Score:             int32(fb.Score),
		Metrics:           marshalJSON(fb.Metrics),
		FeedbackText:      fb.FeedbackText,
		SkillsProgression: marshalJSON(fb.SkillsProgression),
		CreatedAt:         pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	})
	if err != nil {
		return repository.Wrap(repository.KindRepositoryFailure, "create feedback failed", err)
	}
	return nil
}

// CountAttempts implements repository.Repository.
func (s *Store) CountAttempts(ctx context.Context, profileID, challengeID uuid.UUID) (int, error) {
	count, err := s.Queries.CountSubmissionAttempts(ctx, CountSubmissionAttemptsParams{
		ProfileID:   toUUID(profileID),
		ChallengeID: toUUID(challengeID),
	})
	if err != nil {
		return 0, repository.Wrap(repository.KindRepositoryFailure, "count attempts failed", err)
	}
	return int(count), nil
}

// AppendProgressionLog implements repository.Repository.
func (s *Store) AppendProgressionLog(ctx context.Context, entry repository.ProgressionLogEntry) error {
	err := s.Queries.AppendProgressionLog(ctx, AppendProgressionLogParams{
		ProfileID:    toUUID(entry.ProfileID),
		SubmissionID: toUUID(entry.SubmissionID),
		Changed:      marshalJSON(entry.Changed),
		Trigger:      entry.Trigger,
		CreatedAt:    pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	})
	if err != nil {
		return repository.Wrap(repository.KindRepositoryFailure, "append progression log failed", err)
	}
	return nil
}
