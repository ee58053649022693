package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"indomart/internal/models"
)

// Validation limits, matching the column sizes of the catalog tables.
const (
	maxNameLen        = 255
	maxSlugLen        = 255
	maxUnitLen        = 50
	maxTitleLen       = 255
	maxDescriptionLen = 20_000
	maxValueTextLen   = 255
)

// Numeric bounds of NUMERIC(10,2) prices and NUMERIC(12,2) attribute values.
var (
	maxPrice       = decimal.New(1, 8)
	maxNumberValue = decimal.New(1, 10)
)

// validateName checks a required name field and returns the first error found.
func validateName(field, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return field + " is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return field + " is too long (max 255 characters)."
	}
	return ""
}

// validateSlug checks an optional slug.
func validateSlug(slug string) string {
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 255 characters)."
	}
	return ""
}

// validateAttribute checks attribute inputs.
func validateAttribute(name string, kind models.AttributeKind, unit string) string {
	if msg := validateName("Name", name); msg != "" {
		return msg
	}
	if !kind.Valid() {
		return "Data type must be one of text, number, bool, choice."
	}
	if utf8.RuneCountInString(unit) > maxUnitLen {
		return "Unit is too long (max 50 characters)."
	}
	return ""
}

// validateProduct checks product inputs.
func validateProduct(name, slug, description string, price decimal.Decimal, oldPrice decimal.NullDecimal, stock, rating, moq int) string {
	if msg := validateName("Name", name); msg != "" {
		return msg
	}
	if msg := validateSlug(slug); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 20,000 characters)."
	}
	if price.IsNegative() {
		return "Price cannot be negative."
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return "Price is too large."
	}
	if oldPrice.Valid && oldPrice.Decimal.IsNegative() {
		return "Old price cannot be negative."
	}
	if oldPrice.Valid && oldPrice.Decimal.GreaterThanOrEqual(maxPrice) {
		return "Old price is too large."
	}
	if stock < 0 {
		return "Stock cannot be negative."
	}
	if rating < 0 || rating > 5 {
		return "Rating must be between 0 and 5."
	}
	if moq < 0 {
		return "Minimum order quantity cannot be negative."
	}
	return ""
}

// validateValue checks that a value payload fits its storage column.
// Matching the payload to the attribute kind is left to the store.
func validateValue(v models.Value) string {
	switch v.Type {
	case "":
		return "value is required."
	case models.ValueText:
		if utf8.RuneCountInString(v.Text) > maxValueTextLen {
			return "Text value is too long (max 255 characters)."
		}
	case models.ValueNumber:
		if v.Number.Abs().GreaterThanOrEqual(maxNumberValue) {
			return "Number value is too large."
		}
	}
	return ""
}

// validateShowcase checks the optional title and description of a banner
// or launch.
func validateShowcase(title *string, description string) string {
	if title != nil && utf8.RuneCountInString(*title) > maxTitleLen {
		return "Title is too long (max 255 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 20000 characters)."
	}
	return ""
}
