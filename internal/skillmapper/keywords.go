package skillmapper

// KeywordSet is one canonical soft skill plus the keywords that identify it
// in an LLM-assessed label. Order matters: the first canonical keyword set
// whose keywords intersect the assessed label wins, matching the tie-break
// rule in spec §4.2.
//
// This is configuration data, not control flow — see DESIGN.md C2.
type KeywordSet struct {
	Canonical string
	Keywords  []string
}

// DefaultSoftSkillKeywords is the built-in keyword table for the three
// canonical Portuguese soft skills named in the spec. A deployment may
// override this with a JSON file named by config.Config.SkillKeywordsPath
// (read by Config.LoadSkillKeywords).
var DefaultSoftSkillKeywords = []KeywordSet{
	{
		Canonical: "Comunicação",
		Keywords: []string{
			"comunicação", "comunicacao", "comunicar", "explicar", "escrever",
			"mensagem", "email", "técnica", "tecnica", "equipe",
		},
	},
	{
		Canonical: "Organização",
		Keywords: []string{
			"organização", "organizacao", "organizar", "planejar",
			"planejamento", "priorizar", "gerenciar", "gestão", "gestao",
			"tempo",
		},
	},
	{
		Canonical: "Resolução de Problemas",
		Keywords: []string{
			"resolução", "resolucao", "resolver", "problema", "debugar",
			"debug", "investigar", "análise", "analise",
		},
	},
}
