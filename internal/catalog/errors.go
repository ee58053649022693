// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies a catalog validation failure. Kinds are comparable
// sentinel errors: use errors.Is(err, catalog.ErrNotFound).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrInvalidDepth              Kind = "invalid_depth"
	ErrInvalidParent             Kind = "invalid_parent"
	ErrInvalidAnchor             Kind = "invalid_anchor"
	ErrDuplicateAssignment       Kind = "duplicate_assignment"
	ErrDuplicateAttributeInBatch Kind = "duplicate_attribute_in_batch"
	ErrDuplicateSlug             Kind = "duplicate_slug"
	ErrDuplicateName             Kind = "duplicate_name"
	ErrTypeMismatch              Kind = "type_mismatch"
	ErrNotFound                  Kind = "not_found"
	ErrProtectedReference        Kind = "protected_reference"
)

// Error carries a Kind together with the key that caused it, e.g. the
// offending node id or (category, attribute) pair.
type Error struct {
	Kind Kind
	Key  string
	Msg  string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Key)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, key, format string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind wrapped by err, or "" if err is not a catalog error.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

// KeyOf returns the offending key recorded on err, if any.
func KeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return ""
}
