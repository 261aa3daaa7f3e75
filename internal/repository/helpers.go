package repository

import (
	"database/sql"
	"time"
)

// nullableString converts an empty string to SQL NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// fromNullString maps SQL NULL back to the empty string.
func fromNullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

// formatTime stores timestamps as RFC3339 in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
