package domain

import (
	"context"
	"encoding/json"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SearchGateway runs queries against the search engine
type SearchGateway interface {
	// Search returns the matching documents; zero hits is not an error.
	// Any engine or transport failure is reported as ErrBadQuery.
	Search(ctx context.Context, index string, query Query) (*SearchHits, error)
	// FetchByID returns the _source of one document or ErrNotFound
	FetchByID(ctx context.Context, index, id string) (json.RawMessage, error)
}

// BulkIndexer writes documents to the search engine in one call
type BulkIndexer interface {
	BulkIndex(ctx context.Context, index string, docs []Document) error
}

// TaskQueue hands batch work to the worker pool
type TaskQueue interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}) (string, error)
	Status(ctx context.Context, id string) (*BatchJob, error)
}

// ToolRepository defines persistence for priced tool records
type ToolRepository interface {
	Create(ctx context.Context, tools []Tool) error
	List(ctx context.Context, offset, limit int) ([]Tool, error)
	GetByTitle(ctx context.Context, baseTitle, manufacturer string) (*Tool, error)
	Update(ctx context.Context, tools []Tool) error
	Delete(ctx context.Context, ids []string) error
}

// UserRepository defines persistence for auth accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenManager signs and verifies auth tokens
type TokenManager interface {
	IssuePair(userID, role string) (TokenPair, error)
	Parse(raw, typ string) (*TokenClaims, error)
}
