// Package evaluator scores one submission against its challenge: it
// renders the submission, prompts the LLM, parses the response, maps
// assessed skill names through the closed-world mapper, computes
// progression deltas, and persists everything in one transaction. It is
// grounded on the teacher's recommendation_handler.go request/authorize/
// fetch/call-external/enrich/respond shape, generalized per spec §4.8.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ascendhq/ascendcore/internal/jsonstream"
	"github.com/ascendhq/ascendcore/internal/llmclient"
	"github.com/ascendhq/ascendcore/internal/progression"
	"github.com/ascendhq/ascendcore/internal/promptbuilder"
	"github.com/ascendhq/ascendcore/internal/repository"
	"github.com/ascendhq/ascendcore/internal/skillmapper"
	"github.com/ascendhq/ascendcore/internal/skillmodel"
)

// Config bundles the LLM-call tunables for evaluation mode.
type Config struct {
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// Result is what the transport layer renders as EvaluationResult (spec §6).
type Result struct {
	SubmissionID      uuid.UUID
	Status            repository.SubmissionStatus
	Score             int
	Metrics           map[string]any
	Feedback          string
	SkillsProgression repository.SkillsProgression
	Warnings          []string
}

// Evaluator runs the evaluate operation described in spec §4.8.
type Evaluator struct {
	repo   repository.Repository
	llm    llmclient.Client
	mapper *skillmapper.Mapper
	cfg    Config
}

// New builds an Evaluator. A nil mapper falls back to
// skillmapper.DefaultSoftSkillKeywords.
func New(repo repository.Repository, llm llmclient.Client, mapper *skillmapper.Mapper, cfg Config) *Evaluator {
	if mapper == nil {
		mapper = skillmapper.New(nil)
	}
	return &Evaluator{repo: repo, llm: llm, mapper: mapper, cfg: cfg}
}

var categoryToSubmissionType = map[repository.Category]repository.SubmissionType{
	repository.CategoryCode:         repository.SubmissionCode,
	repository.CategoryDailyTask:    repository.SubmissionFreeText,
	repository.CategoryOrganization: repository.SubmissionPlanning,
}

// categoryNamespace fixes which skill table an assessment is scored
// against. Per spec §4.8 step 6 this is keyed by category, not by the
// intuitive "soft vs technical" split: code and organization submissions
// score tech_skills, daily-task submissions score soft_skills.
var categoryNamespace = map[repository.Category]skillmodel.Namespace{
	repository.CategoryCode:         skillmodel.Tech,
	repository.CategoryDailyTask:    skillmodel.Soft,
	repository.CategoryOrganization: skillmodel.Tech,
}

var errTruncatedEvaluation = errors.New("evaluator: llm response truncated before a complete document")

// Evaluate runs the full pipeline for one submission.
func (e *Evaluator) Evaluate(ctx context.Context, profileID, challengeID uuid.UUID, sub repository.Submission) (Result, error) {
	ch, err := e.repo.GetChallenge(ctx, challengeID)
	if err != nil {
		return Result{}, repository.Wrap(repository.KindNotFound, "challenge not found", err)
	}
	sub.ChallengeID = challengeID
	sub.ProfileID = profileID

	if err := validatePreconditions(ch, profileID, sub); err != nil {
		return Result{}, err
	}

	profile, err := e.repo.GetProfile(ctx, profileID)
	if err != nil {
		return Result{}, repository.Wrap(repository.KindNotFound, "profile not found", err)
	}

	rendered, err := renderSubmission(sub)
	if err != nil {
		return Result{}, repository.Wrap(repository.KindInvalidInput, "could not render submission", err)
	}

	namespace := categoryNamespace[ch.Category]
	baseline := profile.TechSkills
	if namespace == skillmodel.Soft {
		baseline = profile.SoftSkills
	}
	current := skillmodel.Skills(baseline).Clone()

	affectedValues := make(map[string]int, len(ch.AffectedSkills))
	for _, name := range ch.AffectedSkills {
		affectedValues[name] = current[name]
	}

	prompt := promptbuilder.BuildEvaluation(renderChallengeStatement(ch), rendered, affectedValues)

	fullText, err := e.collectLLMText(ctx, prompt)
	if err != nil {
		return Result{}, err
	}

	value, partial, err := jsonstream.ParseAll(fullText)
	if err == nil && partial {
		err = errTruncatedEvaluation
	}
	if err != nil {
		return Result{}, e.failSubmission(ctx, sub, repository.Wrap(repository.KindParseFailure, "could not parse evaluation response", err))
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return Result{}, e.failSubmission(ctx, sub, repository.New(repository.KindParseFailure, "evaluation response is not a JSON object"))
	}

	notaGeral, ok := intOf(obj["nota_geral"])
	if !ok || notaGeral < 0 || notaGeral > 100 {
		return Result{}, e.failSubmission(ctx, sub, repository.New(repository.KindParseFailure, "nota_geral missing or out of range"))
	}

	skillsAssessment, ok := obj["skills_assessment"].(map[string]any)
	if !ok {
		return Result{}, e.failSubmission(ctx, sub, repository.New(repository.KindParseFailure, "skills_assessment missing"))
	}

	attempts, _ := e.repo.CountAttempts(ctx, profileID, challengeID)
	attempts++

	deltas := map[string]int{}
	newValues := map[string]int{}
	reasoning := map[string]string{}
	changed := map[string]repository.SkillChange{}
	var skillsUpdated []string
	var warnings []string
	seen := map[string]bool{}

	// skills_assessment decodes as a map, which loses the source JSON's key
	// order; the spec's "keep the first, drop the rest" duplicate rule is
	// made deterministic here by walking assessed names in sorted order
	// rather than an unspecified map iteration order.
	assessedNames := make([]string, 0, len(skillsAssessment))
	for name := range skillsAssessment {
		assessedNames = append(assessedNames, name)
	}
	sort.Strings(assessedNames)

	for _, assessedName := range assessedNames {
		rawAssessment := skillsAssessment[assessedName]
		canonical, ok := e.mapper.Resolve(assessedName, current, namespace == skillmodel.Soft)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("skill %q did not map to a canonical skill and was dropped", assessedName))
			continue
		}
		if seen[canonical] {
			warnings = append(warnings, fmt.Sprintf("skill %q duplicate-mapped to %q and was dropped", assessedName, canonical))
			continue
		}
		seen[canonical] = true

		am, ok := rawAssessment.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("skill %q assessment malformed and was dropped", assessedName))
			continue
		}
		demonstrated, _ := intOf(am["skill_level_demonstrated"])
		intensity, _ := floatOf(am["progression_intensity"])
		reasonText, _ := am["reasoning"].(string)

		before := current[canonical]
		delta := progression.Delta(progression.Input{
			SkillCurrent: before,
			NotaGeral:    notaGeral,
			Assessment: progression.Assessment{
				Demonstrated: demonstrated,
				Intensity:    intensity,
				Reasoning:    reasonText,
			},
			Difficulty: progression.Difficulty(ch.Difficulty.Level),
			Attempts:   attempts,
		})
		after := skillmodel.Clamp(before + delta)

		deltas[canonical] = after - before
		newValues[canonical] = after
		reasoning[canonical] = reasonText
		changed[canonical] = repository.SkillChange{From: before, To: after, Delta: after - before}
		skillsUpdated = append(skillsUpdated, canonical)
	}

	metrics, _ := obj["metrics"].(map[string]any)
	feedbackText, _ := obj["feedback"].(string)

	sub.Status = repository.SubmissionScored
	result := repository.SkillsProgression{
		Deltas:        deltas,
		NewValues:     newValues,
		SkillsUpdated: skillsUpdated,
		Reasoning:     reasoning,
	}

	var submissionID uuid.UUID
	txErr := e.repo.RunInTransaction(ctx, func(tx repository.Repository) error {
		id, err := tx.CreateSubmission(ctx, sub)
		if err != nil {
			return err
		}
		submissionID = id

		fullSkills := skillmodel.Skills(baseline).Clone()
		for canonical, val := range newValues {
			fullSkills[canonical] = val
		}
		if namespace == skillmodel.Soft {
			err = tx.UpdateSoftSkills(ctx, profileID, fullSkills)
		} else {
			err = tx.UpdateTechSkills(ctx, profileID, fullSkills)
		}
		if err != nil {
			return err
		}

		if err := tx.CreateFeedback(ctx, repository.Feedback{
			SubmissionID:      submissionID,
			Score:             notaGeral,
			Metrics:           metrics,
			FeedbackText:      feedbackText,
			SkillsProgression: result,
		}); err != nil {
			return err
		}

		if err := tx.MarkCompleted(ctx, challengeID); err != nil {
			return err
		}

		return tx.AppendProgressionLog(ctx, repository.ProgressionLogEntry{
			ProfileID:    profileID,
			SubmissionID: submissionID,
			Changed:      changed,
			Trigger:      "evaluation",
		})
	})
	if txErr != nil {
		return Result{}, repository.Wrap(repository.KindRepositoryFailure, "failed to persist evaluation", txErr)
	}

	return Result{
		SubmissionID:      submissionID,
		Status:            repository.SubmissionScored,
		Score:             notaGeral,
		Metrics:           metrics,
		Feedback:          feedbackText,
		SkillsProgression: result,
		Warnings:          warnings,
	}, nil
}

// failSubmission records a failed attempt (spec §4.8 failure semantics:
// "mark submission failed") and returns the original typed error.
func (e *Evaluator) failSubmission(ctx context.Context, sub repository.Submission, cause *repository.Error) error {
	sub.Status = repository.SubmissionFailed
	_, _ = e.repo.CreateSubmission(ctx, sub)
	return cause
}

func (e *Evaluator) collectLLMText(ctx context.Context, prompt string) (string, error) {
	deltas, errs, err := e.llm.Stream(ctx, prompt, llmclient.Options{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
		Timeout:     e.cfg.Timeout,
		MaxRetries:  e.cfg.MaxRetries,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for deltas != nil || errs != nil {
		select {
		case d, ok := <-deltas:
			if !ok {
				deltas = nil
				continue
			}
			b.WriteString(d.Text)
		case streamErr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if streamErr != nil {
				return "", streamErr
			}
		case <-ctx.Done():
			return "", repository.Wrap(repository.KindTimeout, "evaluation cancelled", ctx.Err())
		}
	}
	return b.String(), nil
}

func validatePreconditions(ch repository.Challenge, profileID uuid.UUID, sub repository.Submission) error {
	if ch.ProfileID != profileID {
		return repository.New(repository.KindNotFound, "challenge not found")
	}
	if ch.Status == repository.ChallengeCompleted {
		return repository.New(repository.KindAlreadyCompleted, "challenge already completed")
	}

	wantType, ok := categoryToSubmissionType[ch.Category]
	if !ok || sub.Type != wantType {
		return repository.New(repository.KindInvalidInput, "submission type does not match challenge category")
	}

	switch sub.Type {
	case repository.SubmissionCode:
		if len(sub.Files) == 0 && strings.TrimSpace(sub.Content) == "" {
			return repository.New(repository.KindInvalidInput, "submission has no files or content")
		}
	case repository.SubmissionFreeText:
		if strings.TrimSpace(sub.Content) == "" {
			return repository.New(repository.KindInvalidInput, "submission content is empty")
		}
	case repository.SubmissionPlanning:
		if len(sub.FormData) == 0 {
			return repository.New(repository.KindInvalidInput, "submission form_data is empty")
		}
	}
	return nil
}

func intOf(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func floatOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
