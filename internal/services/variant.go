package services

import (
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

// SummarySelection is the resolved summary for one reader.
type SummarySelection struct {
	Summary     string `json:"summary"`
	SummaryType string `json:"summary_type"`
}

// SelectSummary maps a requested accessibility category onto the best
// available summary for the content. Unknown or empty categories, and
// categories whose variant is missing, fall back to the generic summary;
// when no adapted set exists at all the raw summary is served. The
// returned SummaryType names what was actually served, not what was asked.
func SelectSummary(content *types.Content, requestedCategory string) SummarySelection {
	set := content.AdaptedSet()

	generic := SummarySelection{Summary: content.Summary, SummaryType: "generic"}
	if set.Generic != "" {
		generic.Summary = set.Generic
	}

	category, known := types.ParseAccessibilityCategory(requestedCategory)
	if !known {
		return generic
	}

	if variant := set.ByCategory(category); variant != "" {
		return SummarySelection{Summary: variant, SummaryType: string(category)}
	}
	return generic
}
