package http

import (
	"net/http"
	"strconv"
	"time"

	"tablebook/pkg/config"
	apperrors "tablebook/pkg/errors"
)

// DateLayout is the wire format for calendar dates in query parameters.
const DateLayout = "2006-01-02"

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate parses a required date query parameter. Accepts plain dates
// and full RFC3339 timestamps; the time-of-day component is ignored by the
// ledger either way.
func ExtractDate(r *http.Request, param string) (time.Time, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput("missing required parameter: " + param)
	}

	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return d, nil
	}

	return time.Time{}, apperrors.InvalidInput("invalid " + param + " parameter, must be YYYY-MM-DD or RFC3339")
}

// ExtractInt parses an integer query parameter, returning fallback when the
// parameter is absent.
func ExtractInt(r *http.Request, param string, fallback int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + param + " parameter: " + raw)
	}
	return v, nil
}
