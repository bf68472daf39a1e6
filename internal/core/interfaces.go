package core

import "context"

// AdminAPI is the remote admin backend. Every call except Login is
// authenticated with the bearer token passed in.
type AdminAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ListQueries(ctx context.Context, token string) ([]QuerySummary, error)
	GetQuery(ctx context.Context, token, name string) (*QueryDetail, error)
	GetDefaultQuery(ctx context.Context, token, name string) (*DefaultQuery, error)
	SaveQuery(ctx context.Context, token string, req SaveQueryRequest) (*Ack, error)
	ListUsers(ctx context.Context, token string) ([]UserAccount, error)
	CreateUser(ctx context.Context, token string, req CreateUserRequest) (*Ack, error)
	UpdateUser(ctx context.Context, token string, id int64, req UpdateUserRequest) (*Ack, error)
	DeleteUser(ctx context.Context, token string, id int64) (*Ack, error)
	ChangePassword(ctx context.Context, token string, req ChangePasswordRequest) (*Ack, error)
}

// AuditRepository defines storage operations for the console activity trail
type AuditRepository interface {
	Create(entry *AuditEntry) error
	GetRecent(limit int) ([]AuditEntry, error)
}
