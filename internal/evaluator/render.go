package evaluator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ascendhq/ascendcore/internal/repository"
)

var errUnsupportedSubmissionType = fmt.Errorf("evaluator: unsupported submission type")

// renderSubmission flattens a tagged submission into the plain text the
// evaluation prompt embeds, per spec §4.8 step 2.
func renderSubmission(sub repository.Submission) (string, error) {
	switch sub.Type {
	case repository.SubmissionCode:
		if len(sub.Files) > 0 {
			paths := make([]string, 0, len(sub.Files))
			for p := range sub.Files {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			var b strings.Builder
			for _, path := range paths {
				fmt.Fprintf(&b, "// %s\n%s\n\n", path, sub.Files[path])
			}
			return b.String(), nil
		}
		return sub.Content, nil

	case repository.SubmissionFreeText:
		return sub.Content, nil

	case repository.SubmissionPlanning:
		sections := make([]string, 0, len(sub.FormData))
		for s := range sub.FormData {
			sections = append(sections, s)
		}
		sort.Strings(sections)

		var b strings.Builder
		for _, section := range sections {
			fmt.Fprintf(&b, "=== %s ===\n", section)
			fields := make([]string, 0, len(sub.FormData[section]))
			for f := range sub.FormData[section] {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(&b, "%s: %v\n", field, sub.FormData[section][field])
			}
		}
		return b.String(), nil

	default:
		return "", errUnsupportedSubmissionType
	}
}

// renderChallengeStatement flattens a challenge's opaque, category-shaped
// Description into plain text for the evaluation prompt. The core never
// destructures Description beyond this generic walk (spec §3: Description
// is opaque JSON the category schemas in §6 describe but the engine does
// not validate field-by-field at evaluation time).
func renderChallengeStatement(ch repository.Challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", ch.Title)

	keys := make([]string, 0, len(ch.Description))
	for k := range ch.Description {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, renderDescriptionValue(ch.Description[k]))
	}
	return b.String()
}

func renderDescriptionValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = renderDescriptionValue(item)
		}
		return strings.Join(parts, "; ")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
