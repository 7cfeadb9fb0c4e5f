package types

import "strings"

// AccessibilityCategory is a declared learner need used to select which
// adapted rendering of a Content a reader receives.
type AccessibilityCategory string

const (
	CategoryVisual       AccessibilityCategory = "visual"
	CategoryAuditory     AccessibilityCategory = "auditory"
	CategoryMotor        AccessibilityCategory = "motor"
	CategoryIntellectual AccessibilityCategory = "intellectual"

	// CategoryAll tags supplementary material aimed at every learner.
	CategoryAll AccessibilityCategory = "all"
)

// KnownCategories lists the four adaptation targets, in storage order.
func KnownCategories() []AccessibilityCategory {
	return []AccessibilityCategory{CategoryVisual, CategoryAuditory, CategoryMotor, CategoryIntellectual}
}

// ParseAccessibilityCategory maps a raw request value to one of the four
// known categories. Unmapped values (including "all" and empty) report false.
func ParseAccessibilityCategory(raw string) (AccessibilityCategory, bool) {
	switch AccessibilityCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryVisual:
		return CategoryVisual, true
	case CategoryAuditory:
		return CategoryAuditory, true
	case CategoryMotor:
		return CategoryMotor, true
	case CategoryIntellectual:
		return CategoryIntellectual, true
	default:
		return "", false
	}
}
