// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Scaling Postgres", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("title", tt.value)

			if tt.hasError {
				require.True(t, v.HasErrors())
				ae := apperr.As(v.Err())
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, "title", ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Slug checks the slug alphabet: lowercase letters, digits, hyphens.
*/
func TestValidator_Slug(t *testing.T) {
	tests := []struct {
		slug    string
		isValid bool
	}{
		{"go-concurrency-2019", true},
		{"a", true},
		{"-leading-and-trailing-", true},
		{"double--hyphen", true},
		{"Upper-Case", false},
		{"with space", false},
		{"under_score", false},
		{"", false},
		{"café", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			v := &validate.Validator{}
			v.Slug("slug", tt.slug)
			assert.Equal(t, !tt.isValid, v.HasErrors())
			assert.Equal(t, tt.isValid, validate.IsSlug(tt.slug))
		})
	}
}

/*
TestValidator_Year checks the accepted conference year window.
*/
func TestValidator_Year(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		year    int
		isValid bool
	}{
		{2012, false},
		{2013, true},
		{2026, true},
		{2027, true},
		{2028, false},
	}

	for _, tt := range tests {
		v := &validate.Validator{}
		v.Year("year", tt.year, now)
		assert.Equal(t, !tt.isValid, v.HasErrors(), "year %d", tt.year)
	}
}

/*
TestValidator_Date checks optional YYYY-MM-DD dates.
*/
func TestValidator_Date(t *testing.T) {
	v := &validate.Validator{}
	v.Date("date", "").Date("date", "2024-05-17")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.Date("date", "2024-02-30").Date("date", "17/05/2024")
	require.True(t, v.HasErrors())
	assert.Len(t, apperr.As(v.Err()).Details, 2)
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "").
		Slug("slug", "Bad Slug").
		OneOf("platform", "twitch", "youtube", "vimeo").
		Merge(apperr.FieldError{Field: "content.blocks[0].id", Message: "Block id is required"}).
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	assert.Len(t, ae.Details, 4)
	assert.Equal(t, "This field is required", ae.Message)
}
