package handlers

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"indomart/internal/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{"valid", "Smartphones", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 256), true},
		{"max length", strings.Repeat("a", 255), false},
		{"multibyte counted as runes", strings.Repeat("é", 255), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateName("Name", tt.input)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateAttribute(t *testing.T) {
	tests := []struct {
		name      string
		attr      string
		kind      models.AttributeKind
		unit      string
		wantError bool
	}{
		{"valid number", "RAM", models.KindNumber, "GB", false},
		{"valid choice", "Color", models.KindChoice, "", false},
		{"unknown kind", "RAM", "integer", "", true},
		{"empty name", "", models.KindText, "", true},
		{"unit too long", "RAM", models.KindNumber, strings.Repeat("G", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateAttribute(tt.attr, tt.kind, tt.unit)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	none := decimal.NullDecimal{}

	tests := []struct {
		name      string
		pname     string
		price     decimal.Decimal
		oldPrice  decimal.NullDecimal
		stock     int
		rating    int
		wantError bool
	}{
		{"valid", "Galaxy S24", price, none, 3, 5, false},
		{"zero rating takes default", "Galaxy S24", price, none, 0, 0, false},
		{"empty name", "", price, none, 0, 5, true},
		{"negative price", "Galaxy S24", price.Neg(), none, 0, 5, true},
		{"negative old price", "Galaxy S24", price, decimal.NewNullDecimal(price.Neg()), 0, 5, true},
		{"negative stock", "Galaxy S24", price, none, -1, 5, true},
		{"rating above five", "Galaxy S24", price, none, 0, 6, true},
		{"price out of column range", "Galaxy S24", decimal.New(1, 8), none, 0, 5, true},
		{"old price out of column range", "Galaxy S24", price, decimal.NewNullDecimal(decimal.New(2, 8)), 0, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateProduct(tt.pname, "", "", tt.price, tt.oldPrice, tt.stock, tt.rating, 1)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name      string
		value     models.Value
		wantError bool
	}{
		{"text", models.TextValue("Midnight Black"), false},
		{"empty text", models.TextValue(""), false},
		{"text too long", models.TextValue(strings.Repeat("x", 256)), true},
		{"number", models.NumberValue(decimal.RequireFromString("6.5")), false},
		{"negative number", models.NumberValue(decimal.RequireFromString("-40")), false},
		{"number too large", models.NumberValue(decimal.New(1, 10)), true},
		{"bool", models.BoolValue(false), false},
		{"unset", models.Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateValue(tt.value)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateShowcase(t *testing.T) {
	short, long := "Summer sale", strings.Repeat("a", 256)
	tests := []struct {
		name        string
		title       *string
		description string
		wantError   bool
	}{
		{"no title", nil, "", false},
		{"valid", &short, "Up to 40% off", false},
		{"title too long", &long, "", true},
		{"description too long", nil, strings.Repeat("a", 20_001), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateShowcase(tt.title, tt.description)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
