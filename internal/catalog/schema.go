// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"indomart/internal/models"
)

// PairKey formats a (left, right) uniqueness key for error reporting.
func PairKey(left, right uuid.UUID) string {
	return fmt.Sprintf("%s/%s", left, right)
}

// CheckAssignment rejects ca if its (category, attribute) pair is already
// among existing.
func CheckAssignment(existing []models.CategoryAttribute, ca models.CategoryAttribute) error {
	for _, e := range existing {
		if e.CategoryID == ca.CategoryID && e.AttributeID == ca.AttributeID {
			return Errorf(ErrDuplicateAssignment, PairKey(ca.CategoryID, ca.AttributeID),
				"attribute is already assigned to this category")
		}
	}
	return nil
}

// SortAssignments orders assignments for display: sort position first,
// then attribute name, then attribute id.
func SortAssignments(as []models.CategoryAttribute) {
	slices.SortStableFunc(as, func(a, b models.CategoryAttribute) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		if c := cmp.Compare(attrName(a), attrName(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.AttributeID.String(), b.AttributeID.String())
	})
}

func attrName(ca models.CategoryAttribute) string {
	if ca.Attribute == nil {
		return ""
	}
	return strings.ToLower(ca.Attribute.Name)
}

// MissingRequired returns the required assignments that have no set value
// among values, in display order.
func MissingRequired(assignments []models.CategoryAttribute, values []models.ProductAttributeValue) []models.CategoryAttribute {
	have := make(map[uuid.UUID]bool, len(values))
	for _, v := range values {
		if v.Value.IsSet() {
			have[v.AttributeID] = true
		}
	}
	var missing []models.CategoryAttribute
	for _, a := range assignments {
		if a.IsRequired && !have[a.AttributeID] {
			missing = append(missing, a)
		}
	}
	SortAssignments(missing)
	return missing
}
