package util

import (
	"math/rand"
	"strings"
)

const alpha = "abcdefghjklmnopqrstuvwxyz"

// RandomInt generates a random integer between min and max
func RandomInt(min, max int64) int64 {
    if max < min {
        min, max = max, min // swap if needed
    }
    return rand.Int63n(max-min+1) + min
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder	
	k := len(alpha)

	for range n {
		c := alpha[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// RandomName generates a random name which can be used for anything
func RandomName() string {
	return RandomString(6)
}

// RandomEmail generates a random email
func RandomEmail() string {
	return RandomString(7) + "@" + RandomString(6) + ".com"
}

// RandomCareerGoal returns a realistic-looking career goal string.
func RandomCareerGoal() string {
	goals := []string{
		"backend engineer", "frontend engineer", "fullstack engineer",
		"data engineer", "mobile engineer", "platform engineer",
	}
	return goals[rand.Intn(len(goals))]
}

// RandomTechSkillName returns one of a fixed pool of plausible technical
// skill names, for seeding a profile's tech_skills table in tests.
func RandomTechSkillName() string {
	skills := []string{
		"Go", "Python", "FastAPI", "SQL", "Docker", "Kubernetes",
		"React", "TypeScript", "PostgreSQL", "Debugging",
	}
	return skills[rand.Intn(len(skills))]
}

// RandomSkillLevel returns a random skill value in the valid [0,100] range.
func RandomSkillLevel() int {
	return int(RandomInt(0, 100))
}

// RandomSkills builds a map of n distinct skill names to random skill
// levels, for seeding test profiles. Falls back to random strings once
// the fixed skill-name pool is exhausted.
func RandomSkills(n int) map[string]int {
	skills := make(map[string]int, n)
	for len(skills) < n {
		name := RandomTechSkillName()
		if _, taken := skills[name]; taken {
			name = RandomString(8)
		}
		skills[name] = RandomSkillLevel()
	}
	return skills
}

