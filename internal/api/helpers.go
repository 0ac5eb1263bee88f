package api

import (
	"net/http"
	"strconv"

	"github.com/studymate/reviewd/internal/errors"
)

// parsePaging reads page/limit query parameters, applying the server's
// default and maximum page sizes.
func (s *Server) parsePaging(r *http.Request) (page, limit int) {
	page = 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	limit = s.DefaultPageSize
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > s.MaxPageSize {
		limit = s.MaxPageSize
	}
	return page, limit
}

// optionalIntParam parses an optional integer query parameter. Returns nil
// when absent and a validation error when present but malformed.
func optionalIntParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.NewValidationError(name, "must be an integer")
	}
	return &v, nil
}
