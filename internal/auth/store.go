package auth

import "context"

// UserStore persists accounts. Implementations return sentinel.ErrNotFound
// for absent emails and sentinel.ErrConflict on duplicate registration.
type UserStore interface {
	Save(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (User, error)
}
