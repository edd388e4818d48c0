// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// Used in the service layer only. Handlers decode, services validate.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/constants"
)

var (
	// slugRegex matches lowercase letters, digits and hyphens in any order.
	slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

	// dateRegex matches a calendar date in YYYY-MM-DD form.
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// IsSlug reports whether s is a well-formed article slug.
func IsSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// Validator collects field-level validation errors via a fluent, chainable API.
//
// Not safe for concurrent use. Create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Slug fails if the value contains anything but lowercase letters, digits and hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	if !IsSlug(value) {
		v.add(field, "Slug must contain only lowercase letters, numbers, and hyphens")
	}
	return v
}

// Year fails unless value is in [2013, now.Year()+1].
func (v *Validator) Year(field string, value int, now time.Time) *Validator {
	return v.Range(field, value, constants.MinArticleYear, now.Year()+1)
}

// Date fails if a non-empty value is not a valid YYYY-MM-DD date.
func (v *Validator) Date(field, value string) *Validator {
	if value == "" {
		return v
	}
	if !dateRegex.MatchString(value) {
		v.add(field, "Must be a date in YYYY-MM-DD format")
		return v
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		v.add(field, "Must be a valid calendar date")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
//	v.Custom("content", content == nil, "Content is required")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Merge appends failures produced elsewhere (e.g. content structure checks).
func (v *Validator) Merge(errs ...apperr.FieldError) *Validator {
	v.errs = append(v.errs, errs...)
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rule failed, or nil.
//
// The message is the first failure so single-field errors read naturally.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(v.errs[0].Message, v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(message, apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
