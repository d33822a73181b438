// db/sqlc/store_test.go
package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ascendhq/ascendcore/internal/repository"
	"github.com/ascendhq/ascendcore/util"
)

// seedProfile inserts a profile row directly with a plain Exec, since
// profile creation is owned by an external identity system (spec §1
// non-goal) and has no place in repository.Repository.
func seedProfile(t *testing.T, techSkills, softSkills map[string]int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := testPool.Exec(context.Background(), `
		INSERT INTO profiles (id, career_goal, tech_skills, soft_skills, strong_skills)
		VALUES ($1, $2, $3, $4, '{}')`,
		id, util.RandomCareerGoal(), marshalJSON(techSkills), marshalJSON(softSkills),
	)
	require.NoError(t, err)
	return id
}

func TestStore_GetProfileAndUpdateSkills(t *testing.T) {
	store := NewStore(testPool)
	techSkills := util.RandomSkills(3)
	profileID := seedProfile(t, techSkills, map[string]int{})

	profile, err := store.GetProfile(context.Background(), profileID)
	require.NoError(t, err)
	require.Equal(t, profileID, profile.ProfileID)
	require.Equal(t, techSkills, profile.TechSkills)

	updated := util.RandomSkills(2)
	require.NoError(t, store.UpdateTechSkills(context.Background(), profileID, updated))

	reloaded, err := store.GetTechSkills(context.Background(), profileID)
	require.NoError(t, err)
	require.Equal(t, updated, reloaded)
}

func TestStore_ChallengeLifecycle(t *testing.T) {
	store := NewStore(testPool)
	profileID := seedProfile(t, util.RandomSkills(2), map[string]int{})

	ch := repository.Challenge{
		ChallengeID:    uuid.New(),
		ProfileID:      profileID,
		Category:       repository.CategoryCode,
		Title:          "Fix the bug",
		Description:    map[string]any{"text": "fix it"},
		Difficulty:     repository.Difficulty{Level: repository.DifficultyEasy, TimeLimitMinutes: 30},
		TargetSkill:    "Go",
		AffectedSkills: []string{"Go", "Debugging"},
		Status:         repository.ChallengeActive,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.CreateChallenge(context.Background(), ch))

	fetched, err := store.GetChallenge(context.Background(), ch.ChallengeID)
	require.NoError(t, err)
	require.Equal(t, ch.Title, fetched.Title)
	require.Equal(t, ch.AffectedSkills, fetched.AffectedSkills)
	require.Equal(t, repository.ChallengeActive, fetched.Status)

	active, err := store.ActiveChallenges(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, store.DeactivateActiveChallenges(context.Background(), profileID))
	active, err = store.ActiveChallenges(context.Background(), profileID)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestStore_SubmissionAndFeedbackTransaction(t *testing.T) {
	store := NewStore(testPool)
	profileID := seedProfile(t, map[string]int{"Go": 40}, map[string]int{})

	ch := repository.Challenge{
		ChallengeID:    uuid.New(),
		ProfileID:      profileID,
		Category:       repository.CategoryCode,
		Title:          "Ship the feature",
		Description:    map[string]any{"text": "ship it"},
		Difficulty:     repository.Difficulty{Level: repository.DifficultyMedium, TimeLimitMinutes: 45},
		TargetSkill:    "Go",
		AffectedSkills: []string{"Go"},
		Status:         repository.ChallengeActive,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.CreateChallenge(context.Background(), ch))

	var submissionID uuid.UUID
	err := store.RunInTransaction(context.Background(), func(tx repository.Repository) error {
		id, err := tx.CreateSubmission(context.Background(), repository.Submission{
			ProfileID:   profileID,
			ChallengeID: ch.ChallengeID,
			Type:        repository.SubmissionCode,
			Files:       map[string]string{"main.go": "package main"},
			Status:      repository.SubmissionScored,
		})
		if err != nil {
			return err
		}
		submissionID = id

		if err := tx.CreateFeedback(context.Background(), repository.Feedback{
			SubmissionID: submissionID,
			Score:        88,
			Metrics:      map[string]any{"tests_passed": 5},
			FeedbackText: "solid",
			SkillsProgression: repository.SkillsProgression{
				Deltas:        map[string]int{"Go": 4},
				NewValues:     map[string]int{"Go": 44},
				SkillsUpdated: []string{"Go"},
				Reasoning:     map[string]string{"Go": "clean implementation"},
			},
		}); err != nil {
			return err
		}

		if err := tx.MarkCompleted(context.Background(), ch.ChallengeID); err != nil {
			return err
		}

		return tx.AppendProgressionLog(context.Background(), repository.ProgressionLogEntry{
			ProfileID:    profileID,
			SubmissionID: submissionID,
			Changed:      map[string]repository.SkillChange{"Go": {From: 40, To: 44, Delta: 4}},
			Trigger:      "evaluation",
		})
	})
	require.NoError(t, err)

	attempts, err := store.CountAttempts(context.Background(), profileID, ch.ChallengeID)
	require.NoError(t, err)
	require.Equal(t, 1, attempts)

	completed, err := store.GetChallenge(context.Background(), ch.ChallengeID)
	require.NoError(t, err)
	require.Equal(t, repository.ChallengeCompleted, completed.Status)
}
