package evaluator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ascendhq/ascendcore/internal/evaluator"
	"github.com/ascendhq/ascendcore/internal/llmclient"
	"github.com/ascendhq/ascendcore/internal/repository"
)

type fakeRepo struct {
	mu          sync.Mutex
	profiles    map[uuid.UUID]repository.Profile
	challenges  map[uuid.UUID]repository.Challenge
	submissions []repository.Submission
	feedback    []repository.Feedback
	attempts    map[uuid.UUID]int
	failCreate  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:   make(map[uuid.UUID]repository.Profile),
		challenges: make(map[uuid.UUID]repository.Challenge),
		attempts:   make(map[uuid.UUID]int),
	}
}

func (r *fakeRepo) GetProfile(ctx context.Context, id uuid.UUID) (repository.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return repository.Profile{}, repository.New(repository.KindNotFound, "profile not found")
	}
	return p, nil
}
func (r *fakeRepo) GetTechSkills(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	return r.profiles[id].TechSkills, nil
}
func (r *fakeRepo) GetSoftSkills(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	return r.profiles[id].SoftSkills, nil
}
func (r *fakeRepo) UpdateTechSkills(ctx context.Context, id uuid.UUID, skills map[string]int) error {
	p := r.profiles[id]
	p.TechSkills = skills
	r.profiles[id] = p
	return nil
}
func (r *fakeRepo) UpdateSoftSkills(ctx context.Context, id uuid.UUID, skills map[string]int) error {
	p := r.profiles[id]
	p.SoftSkills = skills
	r.profiles[id] = p
	return nil
}
func (r *fakeRepo) ActiveChallenges(ctx context.Context, id uuid.UUID) ([]repository.Challenge, error) {
	return nil, nil
}
func (r *fakeRepo) DeactivateActiveChallenges(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeRepo) CreateChallenge(ctx context.Context, ch repository.Challenge) error {
	r.challenges[ch.ChallengeID] = ch
	return nil
}
func (r *fakeRepo) GetChallenge(ctx context.Context, id uuid.UUID) (repository.Challenge, error) {
	ch, ok := r.challenges[id]
	if !ok {
		return repository.Challenge{}, repository.New(repository.KindNotFound, "challenge not found")
	}
	return ch, nil
}
func (r *fakeRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	ch := r.challenges[id]
	ch.Status = repository.ChallengeCompleted
	r.challenges[id] = ch
	return nil
}
func (r *fakeRepo) CreateSubmission(ctx context.Context, s repository.Submission) (uuid.UUID, error) {
	if r.failCreate {
		return uuid.Nil, repository.New(repository.KindRepositoryFailure, "insert failed")
	}
	s.SubmissionID = uuid.New()
	r.mu.Lock()
	r.submissions = append(r.submissions, s)
	r.mu.Unlock()
	return s.SubmissionID, nil
}
func (r *fakeRepo) CreateFeedback(ctx context.Context, f repository.Feedback) error {
	r.mu.Lock()
	r.feedback = append(r.feedback, f)
	r.mu.Unlock()
	return nil
}
func (r *fakeRepo) CountAttempts(ctx context.Context, profileID, challengeID uuid.UUID) (int, error) {
	return r.attempts[challengeID], nil
}
func (r *fakeRepo) AppendProgressionLog(ctx context.Context, e repository.ProgressionLogEntry) error {
	return nil
}
func (r *fakeRepo) RunInTransaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return fn(r)
}

type fakeLLM struct{ text string }

func (f *fakeLLM) Stream(ctx context.Context, prompt string, opts llmclient.Options) (<-chan llmclient.Delta, <-chan error, error) {
	out := make(chan llmclient.Delta, 1)
	errs := make(chan error)
	out <- llmclient.Delta{Text: f.text}
	close(out)
	close(errs)
	return out, errs, nil
}

func seedCodeChallenge(repo *fakeRepo, profileID uuid.UUID) uuid.UUID {
	id := uuid.New()
	repo.challenges[id] = repository.Challenge{
		ChallengeID:    id,
		ProfileID:      profileID,
		Category:       repository.CategoryCode,
		Title:          "Fix the bug",
		Description:    map[string]any{"text": "fix it"},
		Difficulty:     repository.Difficulty{Level: repository.DifficultyHard, TimeLimitMinutes: 30},
		TargetSkill:    "Python",
		AffectedSkills: []string{"Python", "FastAPI", "SQL"},
		Status:         repository.ChallengeActive,
	}
	return id
}

func TestEvaluate_S2_CodeSubmissionAllSkillsOwned(t *testing.T) {
	repo := newFakeRepo()
	profileID := uuid.New()
	repo.profiles[profileID] = repository.Profile{
		ProfileID:  profileID,
		TechSkills: map[string]int{"Python": 70, "FastAPI": 60, "SQL": 55},
		SoftSkills: map[string]int{},
	}
	challengeID := seedCodeChallenge(repo, profileID)

	llmResponse := `{
		"nota_geral": 85,
		"metrics": {"tests_passed": 8},
		"feedback": "solid work",
		"skills_assessment": {
			"Python": {"skill_level_demonstrated": 85, "progression_intensity": 0.7, "reasoning": "clean code"},
			"FastAPI": {"skill_level_demonstrated": 75, "progression_intensity": 0.5, "reasoning": "good routing"},
			"SQL": {"skill_level_demonstrated": 70, "progression_intensity": 0.4, "reasoning": "fine queries"}
		}
	}`

	ev := evaluator.New(repo, &fakeLLM{text: llmResponse}, nil, evaluator.Config{})
	result, err := ev.Evaluate(context.Background(), profileID, challengeID, repository.Submission{
		Type:  repository.SubmissionCode,
		Files: map[string]string{"main.py": "print('ok')"},
	})
	require.NoError(t, err)
	require.Equal(t, repository.SubmissionScored, result.Status)
	require.Equal(t, 85, result.Score)

	require.Greater(t, result.SkillsProgression.Deltas["Python"], 0)
	require.Greater(t, result.SkillsProgression.Deltas["FastAPI"], 0)
	require.Greater(t, result.SkillsProgression.Deltas["SQL"], 0)
	require.GreaterOrEqual(t, result.SkillsProgression.Deltas["Python"], result.SkillsProgression.Deltas["SQL"])

	for _, v := range result.SkillsProgression.NewValues {
		require.LessOrEqual(t, v, 100)
	}
	require.Equal(t, repository.ChallengeCompleted, repo.challenges[challengeID].Status)
}

func TestEvaluate_S3_FailingSubmissionAllDeltasNegative(t *testing.T) {
	repo := newFakeRepo()
	profileID := uuid.New()
	repo.profiles[profileID] = repository.Profile{
		ProfileID:  profileID,
		TechSkills: map[string]int{"Python": 70, "FastAPI": 60, "SQL": 55},
	}
	challengeID := seedCodeChallenge(repo, profileID)

	llmResponse := `{
		"nota_geral": 25,
		"metrics": {},
		"feedback": "needs work",
		"skills_assessment": {
			"Python": {"skill_level_demonstrated": 30, "progression_intensity": -0.6, "reasoning": "bugs remain"},
			"FastAPI": {"skill_level_demonstrated": 20, "progression_intensity": -0.6, "reasoning": "routes broken"},
			"SQL": {"skill_level_demonstrated": 15, "progression_intensity": -0.6, "reasoning": "queries fail"}
		}
	}`

	ev := evaluator.New(repo, &fakeLLM{text: llmResponse}, nil, evaluator.Config{})
	result, err := ev.Evaluate(context.Background(), profileID, challengeID, repository.Submission{
		Type:  repository.SubmissionCode,
		Files: map[string]string{"main.py": "print('broken')"},
	})
	require.NoError(t, err)
	require.Equal(t, repository.SubmissionScored, result.Status)

	for skill, delta := range result.SkillsProgression.Deltas {
		require.LessOrEqualf(t, delta, -2, "skill %s", skill)
	}
}

func TestEvaluate_S1_SoftSkillRenameMapping(t *testing.T) {
	repo := newFakeRepo()
	profileID := uuid.New()
	repo.profiles[profileID] = repository.Profile{
		ProfileID: profileID,
		SoftSkills: map[string]int{
			"Comunicação":            33,
			"Organização":            30,
			"Resolução de Problemas": 50,
		},
	}
	challengeID := uuid.New()
	repo.challenges[challengeID] = repository.Challenge{
		ChallengeID:    challengeID,
		ProfileID:      profileID,
		Category:       repository.CategoryDailyTask,
		Title:          "Write a status update",
		Description:    map[string]any{"context": "weekly update"},
		Difficulty:     repository.Difficulty{Level: repository.DifficultyMedium, TimeLimitMinutes: 20},
		TargetSkill:    "Comunicação",
		AffectedSkills: []string{"Comunicação", "Organização"},
		Status:         repository.ChallengeActive,
	}

	llmResponse := `{
		"nota_geral": 82,
		"metrics": {},
		"feedback": "clear update",
		"skills_assessment": {
			"Comunicação em equipe": {"skill_level_demonstrated": 80, "progression_intensity": 0.7, "reasoning": "clear to peers"},
			"Comunicação técnica": {"skill_level_demonstrated": 75, "progression_intensity": 0.6, "reasoning": "precise wording"},
			"Empatia": {"skill_level_demonstrated": 85, "progression_intensity": 0.5, "reasoning": "considerate tone"}
		}
	}`

	ev := evaluator.New(repo, &fakeLLM{text: llmResponse}, nil, evaluator.Config{})
	result, err := ev.Evaluate(context.Background(), profileID, challengeID, repository.Submission{
		Type:    repository.SubmissionFreeText,
		Content: "Here is my weekly status update to the team.",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Comunicação"}, result.SkillsProgression.SkillsUpdated)
	require.Len(t, result.Warnings, 2)
	require.Contains(t, repo.profiles[profileID].SoftSkills, "Comunicação")
	require.NotContains(t, repo.profiles[profileID].SoftSkills, "Empatia")
	require.Equal(t, 30, repo.profiles[profileID].SoftSkills["Organização"])
}

func TestEvaluate_RejectsSubmissionTypeMismatch(t *testing.T) {
	repo := newFakeRepo()
	profileID := uuid.New()
	repo.profiles[profileID] = repository.Profile{ProfileID: profileID, TechSkills: map[string]int{"Python": 50}}
	challengeID := seedCodeChallenge(repo, profileID)

	ev := evaluator.New(repo, &fakeLLM{}, nil, evaluator.Config{})
	_, err := ev.Evaluate(context.Background(), profileID, challengeID, repository.Submission{
		Type:    repository.SubmissionFreeText,
		Content: "wrong type",
	})
	require.Error(t, err)
	kind, ok := repository.KindOf(err)
	require.True(t, ok)
	require.Equal(t, repository.KindInvalidInput, kind)
}

func TestEvaluate_RejectsAlreadyCompletedChallenge(t *testing.T) {
	repo := newFakeRepo()
	profileID := uuid.New()
	repo.profiles[profileID] = repository.Profile{ProfileID: profileID, TechSkills: map[string]int{"Python": 50}}
	challengeID := seedCodeChallenge(repo, profileID)
	ch := repo.challenges[challengeID]
	ch.Status = repository.ChallengeCompleted
	repo.challenges[challengeID] = ch

	ev := evaluator.New(repo, &fakeLLM{}, nil, evaluator.Config{})
	_, err := ev.Evaluate(context.Background(), profileID, challengeID, repository.Submission{
		Type:  repository.SubmissionCode,
		Files: map[string]string{"main.py": "ok"},
	})
	require.Error(t, err)
	kind, ok := repository.KindOf(err)
	require.True(t, ok)
	require.Equal(t, repository.KindAlreadyCompleted, kind)
}

func TestEvaluate_TruncatedResponseFailsSubmission(t *testing.T) {
	repo := newFakeRepo()
	profileID := uuid.New()
	repo.profiles[profileID] = repository.Profile{ProfileID: profileID, TechSkills: map[string]int{"Python": 50}}
	challengeID := seedCodeChallenge(repo, profileID)

	ev := evaluator.New(repo, &fakeLLM{text: `{"nota_geral": 80, "skills_assessment": {`}, nil, evaluator.Config{})
	_, err := ev.Evaluate(context.Background(), profileID, challengeID, repository.Submission{
		Type:  repository.SubmissionCode,
		Files: map[string]string{"main.py": "ok"},
	})
	require.Error(t, err)
	kind, ok := repository.KindOf(err)
	require.True(t, ok)
	require.Equal(t, repository.KindParseFailure, kind)

	require.Len(t, repo.submissions, 1)
	require.Equal(t, repository.SubmissionFailed, repo.submissions[0].Status)
}

func TestEvaluate_CompletesWithinTimeout(t *testing.T) {
	repo := newFakeRepo()
	profileID := uuid.New()
	repo.profiles[profileID] = repository.Profile{ProfileID: profileID, TechSkills: map[string]int{"Python": 50}}
	challengeID := seedCodeChallenge(repo, profileID)

	ev := evaluator.New(repo, &fakeLLM{text: `{"nota_geral": 80, "skills_assessment": {}}`}, nil, evaluator.Config{Timeout: time.Second})
	_, err := ev.Evaluate(context.Background(), profileID, challengeID, repository.Submission{
		Type:  repository.SubmissionCode,
		Files: map[string]string{"main.py": "ok"},
	})
	require.NoError(t, err)
}
