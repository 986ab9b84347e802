package http

import (
	"net/http"
	"strconv"

	"pujari/pkg/config"
	apperrors "pujari/pkg/errors"
)

// ExtractPageLimit reads ?page= and ?limit= query parameters, defaulting and
// clamping them to the configured bounds. Page numbering starts at 1.
func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}
	limit = config.NormalizePaginationLimit(limit)

	return page, limit, nil
}
