package core

import (
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// ForbiddenKeywords are rejected by the local query test. Matching is a
// case-insensitive substring search, so "created_at" trips "create".
var ForbiddenKeywords = []string{"drop", "delete", "truncate", "insert", "update", "alter", "create"}

// CheckSelect applies the checks shared by test and save: non-empty and
// starting with SELECT.
func CheckSelect(sql string) error {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return Invalid("Query cannot be empty")
	}
	if !strings.HasPrefix(strings.ToLower(sql), "select") {
		return Invalid("Query must start with SELECT")
	}
	return nil
}

// CheckQuerySyntax is the local "test" heuristic. It never proves the SQL is valid.
func CheckQuerySyntax(sql string) error {
	if err := CheckSelect(sql); err != nil {
		return err
	}
	lower := strings.ToLower(sql)
	for _, kw := range ForbiddenKeywords {
		if strings.Contains(lower, kw) {
			return Invalid("Query contains forbidden keyword: %s", strings.ToUpper(kw))
		}
	}
	return nil
}

func CheckUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return Invalid("Username must be at least %d characters", MinUsernameLength)
	}
	return nil
}

func CheckPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Invalid("Password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// CheckPasswordChange validates the self-service form. Whether current is
// correct is only known to the server.
func CheckPasswordChange(current, next, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		return Invalid("All password fields are required")
	}
	if next != confirm {
		return Invalid("New passwords do not match")
	}
	return CheckPassword(next)
}
