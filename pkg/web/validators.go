package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int) bool

// gte returns a ParamValidator that checks if the argument is greater than or equal to the given value.
func gte(min int) ParamValidator {
	return func(v int) bool { return v >= min }
}

// ParseOptionalGte parses an optional integer query parameter. A missing
// parameter yields def; a present but malformed or out-of-range value is a
// 400 response.
func ParseOptionalGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, min, def int) (int, bool) {
	return parseOptional(r, w, logger, key, gte(min), def)
}

func parseOptional(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator, def int) (int, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	intValue, err := strconv.Atoi(value)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return intValue, true
}
