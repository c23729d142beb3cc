package utils

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"student-marksheets/models"
)

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(error); err != nil {
		logrus.WithError(err).Error("Failed to encode error response")
	}
}

func ResponseJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
	}
}

// EscapeSQLLiteral renders a value as a single SQL literal token. A nil
// value becomes the NULL keyword; anything else is coerced to text, has
// every embedded single quote doubled, and is wrapped in single quotes.
// Quote-doubling is the sole defense: the result never contains an unpaired
// quote, so user content cannot terminate the statement.
//
// All statements in this service are parameterized; this is the documented
// fallback for drivers that only accept inline literals.
func EscapeSQLLiteral(value interface{}) string {
	if value == nil {
		return "NULL"
	}
	text := fmt.Sprintf("%v", value)
	return "'" + strings.ReplaceAll(text, "'", "''") + "'"
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFileName maps an uploaded file's base name onto the characters
// allowed on disk. Everything outside [A-Za-z0-9._-] becomes an underscore.
// If nothing usable remains, a generated name is substituted.
func SanitizeFileName(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	sanitized := unsafeFileChars.ReplaceAllString(base, "_")
	if strings.Trim(sanitized, "._-") == "" {
		return fmt.Sprintf("upload_%d.xlsx", time.Now().UnixMilli())
	}
	return sanitized
}

// NormalizeMarksPath rewrites a stored marks file path into a web path:
// backslashes become forward slashes, and a path that starts with the
// uploads root folder name (case-insensitive) gets a leading slash. Empty
// paths pass through unchanged.
func NormalizeMarksPath(path, uploadsRootName string) string {
	if path == "" {
		return ""
	}
	normalized := strings.ReplaceAll(path, `\`, "/")
	if !strings.HasPrefix(normalized, "/") &&
		strings.HasPrefix(strings.ToLower(normalized), strings.ToLower(uploadsRootName)) {
		normalized = "/" + normalized
	}
	return normalized
}

func StrToInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
