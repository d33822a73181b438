// Package skillmapper resolves an LLM-reported skill name to a canonical
// name already present in a user's profile, or rejects it. It is the
// closed-world gate described in spec §4.2: the LLM may propose whatever
// label it likes, but only a name the mapper resolves may ever be written
// back to a profile.
package skillmapper

import "strings"

// Mapper resolves assessed skill names against a user's canonical skill
// tables using a configurable soft-skill keyword table.
type Mapper struct {
	softKeywords []KeywordSet
}

// New returns a Mapper using the given soft-skill keyword configuration.
// Pass nil to use DefaultSoftSkillKeywords.
func New(softKeywords []KeywordSet) *Mapper {
	if softKeywords == nil {
		softKeywords = DefaultSoftSkillKeywords
	}
	return &Mapper{softKeywords: softKeywords}
}

// Resolve maps assessedName to a canonical key of userSkills, or returns
// ("", false) if no rule applies. isSoftSkill selects whether the keyword
// (soft) or substring (tech) tier is eligible; exact match always applies
// first regardless of namespace.
func (m *Mapper) Resolve(assessedName string, userSkills map[string]int, isSoftSkill bool) (string, bool) {
	// 1. Exact match.
	if _, ok := userSkills[assessedName]; ok {
		return assessedName, true
	}

	lowered := strings.ToLower(assessedName)

	// 2. Keyword match, soft skills only. First matching keyword set in
	// configured order wins, but only if its canonical name is actually one
	// of the user's skills — the mapper never invents a skill.
	if isSoftSkill {
		for _, set := range m.softKeywords {
			if _, owns := userSkills[set.Canonical]; !owns {
				continue
			}
			for _, kw := range set.Keywords {
				if strings.Contains(lowered, kw) {
					return set.Canonical, true
				}
			}
		}
		return "", false
	}

	// 3. Substring match, tech skills only: normalized assessedName is a
	// substring of a canonical key or vice versa.
	for canonical := range userSkills {
		canonicalLower := strings.ToLower(canonical)
		if strings.Contains(canonicalLower, lowered) || strings.Contains(lowered, canonicalLower) {
			return canonical, true
		}
	}

	return "", false
}
