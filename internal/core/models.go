package core

import (
	"time"
)

// Session is the operator's persisted credential set.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// HasToken reports whether the session carries a bearer token at all
func (s Session) HasToken() bool {
	return s.Token != ""
}

type QuerySummary struct {
	QueryName   string  `json:"query_name"`
	Description string  `json:"description,omitempty"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

// IsDefault is true while the template still runs the built-in default SQL.
func (q QuerySummary) IsDefault() bool {
	return q.UpdatedAt == nil || *q.UpdatedAt == ""
}

type QueryDetail struct {
	QuerySummary
	QuerySQL  string  `json:"query_sql"`
	CreatedAt *string `json:"created_at,omitempty"`
}

type QueryList struct {
	Queries []QuerySummary `json:"queries"`
	IsAdmin bool           `json:"is_admin"`
}

type DefaultQuery struct {
	QueryName   string `json:"query_name"`
	QuerySQL    string `json:"query_sql"`
	Description string `json:"description"`
}

type SaveQueryRequest struct {
	QueryName   string `json:"query_name"`
	QuerySQL    string `json:"query_sql"`
	Description string `json:"description"`
}

type UserAccount struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateUserRequest carries either an admin flag change or a password reset.
// Unset fields are omitted from the body.
type UpdateUserRequest struct {
	IsAdmin     *bool  `json:"is_admin,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
}

// Ack is the generic success body returned by mutating endpoints.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AuditEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
}

const (
	AuditSuccess = "SUCCESS"
	AuditError   = "ERROR"
)
