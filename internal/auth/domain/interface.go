package domain

import "context"

type UserRepository interface {
	// GetBy* return (nil, nil) when no record matches.
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)

	// Create persists a new user and fills in the generated id. Uniqueness
	// violations surface as ErrUsernameTaken / ErrEmailAlreadyInUse.
	Create(ctx context.Context, user *User) error

	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetEmailVerified(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string, profile Profile) error

	// IncrementTokenVersion atomically bumps the user's token version,
	// invalidating every previously issued token on its next version check.
	IncrementTokenVersion(ctx context.Context, id int64) error

	List(ctx context.Context) ([]*User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// GetByID returns (nil, nil) when the session does not exist.
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	// Delete is idempotent; deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error
	ListByUserID(ctx context.Context, userID int64) ([]*Session, error)
}

type MailKind string

const (
	MailVerify  MailKind = "verify"
	MailRecover MailKind = "recover"
)

// Mailer delivers a verification or recovery email. Delivery is best effort:
// callers log failures and never propagate them.
type Mailer interface {
	Send(ctx context.Context, to string, kind MailKind, link string) error
}
