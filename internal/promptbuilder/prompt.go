// Package promptbuilder assembles the two prompt shapes the engine ever
// sends to the LLM: a generation prompt (produce three challenges for a
// profile) and an evaluation prompt (score one submission against its
// challenge). Both are pure string functions over a profile snapshot,
// grounded on the teacher's const-template + fmt.Sprintf pattern in
// skillz/llm_processor.go, generalized to carry the richer per-profile and
// per-challenge context this system's rubric needs.
package promptbuilder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ascendhq/ascendcore/internal/repository"
)

const generationPromptTemplate = `
You are designing three personalized professional-development challenges
for a software engineer on the %s track.

CURRENT TECH SKILLS:
%s

CURRENT SOFT SKILLS:
%s

RULES:
1. Produce exactly three challenges as a JSON array under the key "challenges".
2. Each challenge has: category (one of "code", "daily-task", "organization"),
   title, description (shaped per category), difficulty {level, time_limit_minutes},
   target_skill, affected_skills (2-4 short canonical skill names, must include
   target_skill), template_code.
3. If the track is fullstack, include at least one "code" challenge and at
   least one non-code challenge, in randomized order.
4. Choose each challenge's difficulty from the bucket implied by the skill
   level it targets (below 40 -> easy, 40 to 70 -> medium, above 70 -> hard),
   and vary difficulty across the three challenges.
5. affected_skills must be short canonical names (e.g. "PostgreSQL",
   "Comunicação"), never first-person sentences.
6. eval_criteria must be technical nouns, never sentences.

Return a single JSON object: {"challenges": [ ... ]}.
`

const evaluationPromptTemplate = `
You are scoring a submission against a challenge for a software engineer.

CHALLENGE STATEMENT:
%s

SUBMISSION:
%s

SKILLS THIS CHALLENGE AFFECTS (current value in parentheses):
%s

RULES:
1. Return a single JSON object with keys: nota_geral (0-100 overall score),
   metrics (an object of short string keys to numeric values), feedback
   (free text), and skills_assessment.
2. skills_assessment must contain one entry for EACH of the skills listed
   above, keyed by that exact skill label, each shaped as
   {"skill_level_demonstrated": int 0-100, "progression_intensity": float in
   [-1,1], "reasoning": string}.
3. Do not invent additional top-level keys.

Return only the JSON object.
`

// BuildGeneration renders the generation-mode prompt for a profile.
func BuildGeneration(profile repository.Profile) string {
	track := InferTrack(profile.CareerGoal)
	return fmt.Sprintf(
		generationPromptTemplate,
		strings.ToUpper(string(track)),
		renderSkillTable(profile.TechSkills),
		renderSkillTable(profile.SoftSkills),
	)
}

// BuildEvaluation renders the evaluation-mode prompt for one submission.
// renderedSubmission is the submission already flattened to text per its
// type (internal/evaluator's job, spec §4.8 step 2); affectedSkillValues
// maps each of the challenge's affected_skills to the profile's current
// value for that skill (0 if the profile does not own it yet).
func BuildEvaluation(challengeStatement string, renderedSubmission string, affectedSkillValues map[string]int) string {
	return fmt.Sprintf(
		evaluationPromptTemplate,
		challengeStatement,
		renderedSubmission,
		renderSkillTable(affectedSkillValues),
	)
}

func renderSkillTable(skills map[string]int) string {
	if len(skills) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %d\n", name, skills[name])
	}
	return b.String()
}
