// Package answer synthesizes grounded answers from retrieved chunks and
// applies the deterministic presentation transforms.
package answer

import "strings"

// Question categories.
const (
	CategoryRiskManagement  = "Risk Management"
	CategoryPlanning        = "Planning"
	CategoryInternalControl = "Internal Control"
	CategoryGeneralInquiry  = "General Inquiry"
)

// Keyword groups scanned in priority order. The first group with a hit wins,
// so a question mentioning both risk and planning terms classifies as risk.
var questionCategories = []struct {
	category string
	terms    []string
}{
	{CategoryRiskManagement, []string{"리스크", "위험", "risk"}},
	{CategoryPlanning, []string{"감사계획", "계획", "plan"}},
	{CategoryInternalControl, []string{"내부통제", "통제", "control"}},
}

// ClassifyQuestion assigns a question to a category by keyword scan.
func ClassifyQuestion(question string) string {
	lowered := strings.ToLower(question)
	for _, group := range questionCategories {
		for _, term := range group.terms {
			if strings.Contains(lowered, term) {
				return group.category
			}
		}
	}
	return CategoryGeneralInquiry
}
