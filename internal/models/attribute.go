// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttributeKind is the declared value type of an attribute.
type AttributeKind string

const (
	KindText    AttributeKind = "text"
	KindNumber  AttributeKind = "number"
	KindBoolean AttributeKind = "bool"
	KindChoice  AttributeKind = "choice"
)

// Valid reports whether k is one of the known kinds.
func (k AttributeKind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindBoolean, KindChoice:
		return true
	}
	return false
}

// ValueType returns the payload arm that is authoritative for this kind.
// Choice values are stored as text.
func (k AttributeKind) ValueType() ValueType {
	switch k {
	case KindText, KindChoice:
		return ValueText
	case KindNumber:
		return ValueNumber
	case KindBoolean:
		return ValueBool
	}
	return ""
}

// Attribute is a global, typed facet definition such as "Color" or "RAM".
type Attribute struct {
	ID   uuid.UUID     `json:"id"`
	Name string        `json:"name"`
	Kind AttributeKind `json:"data_type"`
	Unit string        `json:"unit"`
}

// CategoryAttribute assigns an attribute to a category.
type CategoryAttribute struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	IsRequired  bool      `json:"is_required"`
	SortOrder   int       `json:"sort_order"`

	Attribute *Attribute `json:"attribute,omitempty"`
}

// ProductAttributeValue is one typed value binding a product to an attribute.
type ProductAttributeValue struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	Value       Value     `json:"value"`

	Attribute *Attribute `json:"attribute,omitempty"`
}

// ValueType tags the arm of a Value.
type ValueType string

const (
	ValueText   ValueType = "text"
	ValueNumber ValueType = "number"
	ValueBool   ValueType = "bool"
)

// Value is a tagged union of the three payload arms. Only the field
// selected by Type is meaningful. The zero Value is unset.
type Value struct {
	Type   ValueType
	Text   string
	Number decimal.Decimal
	Bool   bool
}

// TextValue returns a text payload.
func TextValue(s string) Value { return Value{Type: ValueText, Text: s} }

// NumberValue returns a numeric payload.
func NumberValue(d decimal.Decimal) Value { return Value{Type: ValueNumber, Number: d} }

// BoolValue returns a boolean payload.
func BoolValue(b bool) Value { return Value{Type: ValueBool, Bool: b} }

// IsSet reports whether the value carries a payload.
func (v Value) IsSet() bool {
	return v.Type != ""
}

// Interface returns the payload as a plain Go value, or nil when unset.
func (v Value) Interface() any {
	switch v.Type {
	case ValueText:
		return v.Text
	case ValueNumber:
		return v.Number
	case ValueBool:
		return v.Bool
	}
	return nil
}

func (v Value) String() string {
	if !v.IsSet() {
		return "<unset>"
	}
	return fmt.Sprintf("%s(%v)", v.Type, v.Interface())
}

type valueJSON struct {
	Type  ValueType       `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value as {"type": ..., "value": ...}, or null when unset.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsSet() {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(v.Interface())
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Type: v.Type, Value: raw})
}

// UnmarshalJSON decodes the tagged form produced by MarshalJSON. The
// payload must match the tag; numbers may be JSON numbers or strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Value) == 0 {
		return fmt.Errorf("value: missing payload for type %q", in.Type)
	}
	switch in.Type {
	case ValueText:
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return fmt.Errorf("value: text payload: %w", err)
		}
		*v = TextValue(s)
	case ValueNumber:
		var d decimal.Decimal
		if err := d.UnmarshalJSON(in.Value); err != nil {
			return fmt.Errorf("value: number payload: %w", err)
		}
		*v = NumberValue(d)
	case ValueBool:
		var b bool
		if err := json.Unmarshal(in.Value, &b); err != nil {
			return fmt.Errorf("value: bool payload: %w", err)
		}
		*v = BoolValue(b)
	default:
		return fmt.Errorf("value: unknown type %q", in.Type)
	}
	return nil
}
