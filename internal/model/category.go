package model

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Category is the label a transaction is filed under.
type Category string

// Known categories.
const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryIncome        Category = "Income"
	CategoryOther         Category = "Other"
)

// maxCategoryDistance is the largest edit distance accepted by MatchCategory.
const maxCategoryDistance = 2

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryHealth,
		CategoryEducation,
		CategoryIncome,
		CategoryOther,
	}
}

// Icon returns the glyph shown next to the category in lists.
func (c Category) Icon() string {
	switch c {
	case CategoryFood:
		return "🍔"
	case CategoryTransport:
		return "🚗"
	case CategoryShopping:
		return "🛍️"
	case CategoryEntertainment:
		return "🎬"
	case CategoryBills:
		return "💡"
	case CategoryHealth:
		return "💊"
	case CategoryEducation:
		return "📚"
	case CategoryIncome:
		return "💰"
	default:
		return "📌"
	}
}

// IsKnown reports whether c is one of Categories.
func (c Category) IsKnown() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a label case-insensitively. An empty label yields
// CategoryOther; an unknown label yields false.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return CategoryOther, true
	}
	for _, known := range Categories() {
		if strings.EqualFold(string(known), label) {
			return known, true
		}
	}
	return "", false
}

// MatchCategory resolves a label, tolerating small typos ("Fod", "Bils").
// Labels that match nothing fall back to CategoryOther.
func MatchCategory(label string) Category {
	if c, ok := ParseCategory(label); ok {
		return c
	}

	needle := strings.ToLower(strings.TrimSpace(label))
	best, bestDist := CategoryOther, maxCategoryDistance+1
	for _, known := range Categories() {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(string(known)))
		if dist < bestDist {
			best, bestDist = known, dist
		}
	}
	if bestDist > maxCategoryDistance {
		return CategoryOther
	}
	return best
}
