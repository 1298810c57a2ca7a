package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	workflow "github.com/singhadityakumar1711/turbo-graph-trade"
)

// CreateUser inserts a new account. The username unique constraint turns a
// duplicate into workflow.ErrUsernameTaken.
func (s *PGStore) CreateUser(ctx context.Context, username, passwordHash string) (*workflow.User, error) {
	u := workflow.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		u.ID, u.Username, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return nil, workflow.ErrUsernameTaken
		}
		return nil, fmt.Errorf("workflow: insert user: %w", err)
	}

	return &u, nil
}

// GetUserByUsername fetches an account by username.
// Returns workflow.ErrUserNotFound if no such account exists.
func (s *PGStore) GetUserByUsername(ctx context.Context, username string) (*workflow.User, error) {
	var u workflow.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, workflow.ErrUserNotFound
		}
		return nil, fmt.Errorf("workflow: get user: %w", err)
	}

	return &u, nil
}
