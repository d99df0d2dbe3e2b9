package services

import (
	"strings"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/normalisers/text"
)

// cycleRule maps diploma keywords to a cycle.
type cycleRule struct {
	cycle   domain.Cycle
	phrases [][]string
}

// cycleRules are checked in order; the first rule matching the diploma
// category, then the diploma label, wins.
var cycleRules = compileCycleRules(map[domain.Cycle][]string{
	domain.CycleDoctoral: {
		"doctorat",
		"habilitation a diriger des recherches",
	},
	domain.CycleGraduate: {
		"master",
		"mastere",
		"ingenieur",
		"grade de master",
		"diplome d etat de docteur",
		"diplome de formation approfondie",
	},
	domain.CycleUndergraduate: {
		"licence",
		"bachelor",
		"but",
		"bts",
		"dut",
		"deust",
		"dnmade",
		"diplome de formation generale",
		"classe preparatoire",
	},
}, domain.CycleDoctoral, domain.CycleGraduate, domain.CycleUndergraduate)

func compileCycleRules(keywords map[domain.Cycle][]string, order ...domain.Cycle) []cycleRule {
	rules := make([]cycleRule, 0, len(order))
	for _, c := range order {
		rule := cycleRule{cycle: c}
		for _, k := range keywords[c] {
			rule.phrases = append(rule.phrases, strings.Fields(k))
		}
		rules = append(rules, rule)
	}
	return rules
}

// ClassifyCycle derives the cycle from the diploma category and label.
// Returns domain.CycleOther when no keyword matches.
func ClassifyCycle(category, label string) domain.Cycle {
	categoryTokens := text.Tokens(category)
	labelTokens := text.Tokens(label)

	for _, rule := range cycleRules {
		if rule.matches(categoryTokens) || rule.matches(labelTokens) {
			return rule.cycle
		}
	}
	return domain.CycleOther
}

func (r cycleRule) matches(tokens []string) bool {
	for _, phrase := range r.phrases {
		if text.ContainsPhrase(tokens, phrase) {
			return true
		}
	}
	return false
}
