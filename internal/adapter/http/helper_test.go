package http

import (
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
)

// containsFieldMsg reports whether some detail for field mentions substr.
func containsFieldMsg(list []FieldError, field, substr string) bool {
	return slices.ContainsFunc(list, func(e FieldError) bool {
		return e.Field == field && strings.Contains(e.Message, substr)
	})
}

// detailsOf decodes the field errors of a 422 body.
func detailsOf(t *testing.T, rec *httptest.ResponseRecorder) []FieldError {
	t.Helper()
	return detailsOf(t, rec)
}
