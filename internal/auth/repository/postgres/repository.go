package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/square-net/server/internal/auth/domain"
	autherror "github.com/square-net/server/internal/errors"
)

// PgxIface is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, first_name, last_name, username, email, password, gender, birth_date,
	email_verified, profile_picture, profile_banner, bio, website, token_version, created_at, updated_at`

type UserRepository struct {
	db PgxIface
}

func NewUserRepository(db PgxIface) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1;`

	return r.getOne(ctx, query, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`

	return r.getOne(ctx, query, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`

	return r.getOne(ctx, query, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.db.QueryRow(ctx, query, arg)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (first_name, last_name, username, email, password, gender, birth_date, email_verified, token_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at;
	`

	err := r.db.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash,
		user.Gender, user.BirthDate, user.EmailVerified, user.TokenVersion,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET password = $2, updated_at = now() WHERE id = $1`, id, passwordHash)

	return err
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET email_verified = TRUE, updated_at = now() WHERE id = $1`, id)

	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string, profile domain.Profile) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, profile_picture = $4, profile_banner = $5,
			bio = $6, website = $7, updated_at = now()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id, firstName, lastName,
		profile.ProfilePicture, profile.ProfileBanner, profile.Bio, profile.Website)

	return err
}

// IncrementTokenVersion is a single atomic read-modify-write in the database;
// concurrent revocations and refreshes serialize on the row.
func (r *UserRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET token_version = token_version + 1, updated_at = now() WHERE id = $1`, id)

	return err
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var picture, banner, bio, website *string

	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email,
		&user.PasswordHash, &user.Gender, &user.BirthDate, &user.EmailVerified,
		&picture, &banner, &bio, &website,
		&user.TokenVersion, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Profile = domain.Profile{
		ProfilePicture: deref(picture),
		ProfileBanner:  deref(banner),
		Bio:            deref(bio),
		Website:        deref(website),
	}

	return &user, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// mapUniqueViolation surfaces uniqueness conflicts distinguishably by field.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return fmt.Errorf("failed to create user: %w", err)
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "username"), strings.Contains(pgErr.Detail, "username"):
		return autherror.ErrUsernameTaken
	case strings.Contains(pgErr.ConstraintName, "email"), strings.Contains(pgErr.Detail, "email"):
		return autherror.ErrEmailAlreadyInUse
	default:
		return fmt.Errorf("failed to create user: %w", err)
	}
}

type SessionRepository struct {
	db PgxIface
}

func NewSessionRepository(db PgxIface) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (session_id, user_id, client_os, client_name, device_location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, query,
		session.SessionID, session.UserID, session.ClientOS, session.ClientName,
		session.DeviceLocation, session.CreatedAt)

	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `
		SELECT session_id, user_id, client_os, client_name, device_location, created_at
		FROM sessions
		WHERE session_id = $1
		LIMIT 1;
	`

	var session domain.Session
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.SessionID, &session.UserID, &session.ClientOS,
		&session.ClientName, &session.DeviceLocation, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// Delete is idempotent: removing an absent session affects zero rows and is
// not an error.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE session_id = $1`, sessionID)

	return err
}

func (r *SessionRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Session, error) {
	query := `
		SELECT session_id, user_id, client_os, client_name, device_location, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(
			&session.SessionID, &session.UserID, &session.ClientOS,
			&session.ClientName, &session.DeviceLocation, &session.CreatedAt,
		); err != nil {
			return nil, err
		}

		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}
