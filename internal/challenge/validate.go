package challenge

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ascendhq/ascendcore/internal/repository"
)

var titleCaser = cases.Title(language.Und)

var allowedCategories = map[string]repository.Category{
	"code":         repository.CategoryCode,
	"daily-task":   repository.CategoryDailyTask,
	"organization": repository.CategoryOrganization,
}

// normalizeSkillName strips surrounding whitespace and title-cases a skill
// label, the same treatment the teacher's skillz package applies to
// LLM-reported skill names before they ever reach a canonical table.
func normalizeSkillName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// validateChallenge converts one raw decoded challenge object (a top-level
// element of the "challenges" array) into a repository.Challenge, or
// returns an error describing the first schema violation found. It never
// persists and never consults the profile's skill tables — per spec §4.7,
// generation may propose skill names the profile does not yet own.
func validateChallenge(profileID uuid.UUID, raw map[string]any) (repository.Challenge, error) {
	categoryRaw, _ := raw["category"].(string)
	category, ok := allowedCategories[categoryRaw]
	if !ok {
		return repository.Challenge{}, fmt.Errorf("challenge: invalid category %q", categoryRaw)
	}

	title, _ := raw["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return repository.Challenge{}, fmt.Errorf("challenge: missing title")
	}

	description, ok := raw["description"].(map[string]any)
	if !ok || len(description) == 0 {
		return repository.Challenge{}, fmt.Errorf("challenge: missing description")
	}

	difficulty, err := validateDifficulty(raw["difficulty"])
	if err != nil {
		return repository.Challenge{}, err
	}

	targetSkillRaw, _ := raw["target_skill"].(string)
	targetSkill := normalizeSkillName(targetSkillRaw)
	if targetSkill == "" {
		return repository.Challenge{}, fmt.Errorf("challenge: missing target_skill")
	}

	affected, err := validateAffectedSkills(raw["affected_skills"], targetSkill)
	if err != nil {
		return repository.Challenge{}, err
	}

	return repository.Challenge{
		ChallengeID:    uuid.New(),
		ProfileID:      profileID,
		Category:       category,
		Title:          title,
		Description:    description,
		Difficulty:     difficulty,
		TargetSkill:    targetSkill,
		AffectedSkills: affected,
		TemplateCode:   raw["template_code"],
		Status:         repository.ChallengeActive,
	}, nil
}

func validateDifficulty(raw any) (repository.Difficulty, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return repository.Difficulty{}, fmt.Errorf("challenge: missing difficulty")
	}
	level, _ := m["level"].(string)
	switch repository.DifficultyLevel(level) {
	case repository.DifficultyEasy, repository.DifficultyMedium, repository.DifficultyHard:
	default:
		return repository.Difficulty{}, fmt.Errorf("challenge: invalid difficulty level %q", level)
	}
	minutes, ok := numberOf(m["time_limit_minutes"])
	if !ok || minutes <= 0 {
		return repository.Difficulty{}, fmt.Errorf("challenge: invalid time_limit_minutes")
	}
	return repository.Difficulty{Level: repository.DifficultyLevel(level), TimeLimitMinutes: int(minutes)}, nil
}

func validateAffectedSkills(raw any, targetSkill string) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("challenge: affected_skills missing")
	}
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		name, _ := item.(string)
		name = normalizeSkillName(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if !seen[targetSkill] {
		out = append(out, targetSkill)
	}
	if len(out) < 2 || len(out) > 4 {
		return nil, fmt.Errorf("challenge: affected_skills must have 2-4 entries, got %d", len(out))
	}
	return out, nil
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
