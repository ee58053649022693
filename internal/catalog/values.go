// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"indomart/internal/models"
)

// WriteMode selects between creating a new value and replacing one.
type WriteMode int

const (
	Insert WriteMode = iota
	Update
)

func (m WriteMode) String() string {
	if m == Update {
		return "update"
	}
	return "insert"
}

// BatchEntry is one (attribute, payload) pair of a batch write.
type BatchEntry struct {
	AttributeID uuid.UUID    `json:"attribute_id"`
	Value       models.Value `json:"value"`
}

// CheckValue rejects v unless its tag matches the attribute's declared kind.
func CheckValue(attr models.Attribute, v models.Value) error {
	want := attr.Kind.ValueType()
	if want == "" {
		return Errorf(ErrTypeMismatch, attr.ID.String(), "attribute %q has unknown kind %q", attr.Name, attr.Kind)
	}
	if v.Type != want {
		return Errorf(ErrTypeMismatch, attr.ID.String(),
			"attribute %q expects a %s value, got %s", attr.Name, want, valueTypeName(v.Type))
	}
	return nil
}

func valueTypeName(t models.ValueType) string {
	if t == "" {
		return "no value"
	}
	return string(t)
}

// ValidateBatch rejects a batch in which any attribute id repeats. It runs
// before any lookup or write so a bad batch never partially applies.
func ValidateBatch(entries []BatchEntry) error {
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		if seen[e.AttributeID] {
			return Errorf(ErrDuplicateAttributeInBatch, e.AttributeID.String(),
				"duplicate attribute detected for this product")
		}
		seen[e.AttributeID] = true
	}
	return nil
}

// CheckBatch validates a whole batch against the attribute definitions:
// duplicates first, then existence, then payload kinds.
func CheckBatch(attrs map[uuid.UUID]models.Attribute, entries []BatchEntry) error {
	if err := ValidateBatch(entries); err != nil {
		return err
	}
	for _, e := range entries {
		attr, ok := attrs[e.AttributeID]
		if !ok {
			return Errorf(ErrNotFound, e.AttributeID.String(), "attribute does not exist")
		}
		if err := CheckValue(attr, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// StoredValue is the row form of a value: three nullable arms.
type StoredValue struct {
	Text   *string
	Number decimal.NullDecimal
	Bool   *bool
}

// Store splits v into its row form.
func Store(v models.Value) StoredValue {
	var s StoredValue
	switch v.Type {
	case models.ValueText:
		text := v.Text
		s.Text = &text
	case models.ValueNumber:
		s.Number = decimal.NullDecimal{Decimal: v.Number, Valid: true}
	case models.ValueBool:
		b := v.Bool
		s.Bool = &b
	}
	return s
}

// Resolve reads a stored row using the attribute kind to pick the arm.
// If that arm is empty the value is unset; other populated arms are never
// consulted.
func Resolve(kind models.AttributeKind, s StoredValue) models.Value {
	switch kind.ValueType() {
	case models.ValueText:
		if s.Text != nil {
			return models.TextValue(*s.Text)
		}
	case models.ValueNumber:
		if s.Number.Valid {
			return models.NumberValue(s.Number.Decimal)
		}
	case models.ValueBool:
		if s.Bool != nil {
			return models.BoolValue(*s.Bool)
		}
	}
	return models.Value{}
}
