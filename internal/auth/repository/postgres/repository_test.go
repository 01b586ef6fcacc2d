package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/square-net/server/internal/auth/domain"
	repo "github.com/square-net/server/internal/auth/repository/postgres"
	autherror "github.com/square-net/server/internal/errors"
)

var userColumns = []string{
	"id", "first_name", "last_name", "username", "email", "password", "gender", "birth_date",
	"email_verified", "profile_picture", "profile_banner", "bio", "website", "token_version",
	"created_at", "updated_at",
}

func userRow(id int64, username, email string, tokenVersion int) *pgxmock.Rows {
	now := time.Now()
	birth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	return pgxmock.NewRows(userColumns).AddRow(
		id, "Ada", "Lovelace", username, email, "$argon2id$...", "Female", birth,
		true, nil, nil, nil, nil, tokenVersion, now, now,
	)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, first_name").
			WithArgs("ada").
			WillReturnRows(userRow(1, "ada", "ada@example.com", 3))

		user, err := r.GetByUsername(ctx, "ada")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, 3, user.TokenVersion)
		assert.Empty(t, user.Profile.ProfilePicture)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, first_name").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, first_name").
			WithArgs("ada").
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByUsername(ctx, "ada")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)

	mock.ExpectQuery("SELECT id, first_name").
		WithArgs("ada@example.com").
		WillReturnRows(userRow(1, "ada", "ada@example.com", 0))

	user, err := r.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	newUser := func() *domain.User {
		return &domain.User{
			FirstName:    "Grace",
			LastName:     "Hopper",
			Username:     "grace",
			Email:        "grace@example.com",
			PasswordHash: "$argon2id$...",
			Gender:       "Female",
			BirthDate:    time.Date(1995, 12, 9, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("success fills generated fields", func(t *testing.T) {
		now := time.Now()
		user := newUser()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash,
				user.Gender, user.BirthDate, false, 0).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

		require.NoError(t, r.Create(ctx, user))
		assert.Equal(t, int64(42), user.ID)
	})

	t.Run("username conflict", func(t *testing.T) {
		user := newUser()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash,
				user.Gender, user.BirthDate, false, 0).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrUsernameTaken)
	})

	t.Run("email conflict", func(t *testing.T) {
		user := newUser()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash,
				user.Gender, user.BirthDate, false, 0).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})

	t.Run("other database error", func(t *testing.T) {
		user := newUser()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.FirstName, user.LastName, user.Username, user.Email, user.PasswordHash,
				user.Gender, user.BirthDate, false, 0).
			WillReturnError(fmt.Errorf("db down"))

		err := r.Create(ctx, user)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, autherror.ErrUsernameTaken)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_IncrementTokenVersion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)

	// The bump happens inside the database, never read-then-write.
	mock.ExpectExec(`UPDATE users SET token_version = token_version \+ 1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.IncrementTokenVersion(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Updates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("password", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET password").
			WithArgs(int64(1), "$argon2id$new").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, r.UpdatePassword(ctx, 1, "$argon2id$new"))
	})

	t.Run("email verified", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET email_verified = TRUE").
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, r.SetEmailVerified(ctx, 1))
	})

	t.Run("profile", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs(int64(1), "Ada", "Byron", "pic", "banner", "bio", "site").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, r.UpdateProfile(ctx, 1, "Ada", "Byron", domain.Profile{
			ProfilePicture: "pic", ProfileBanner: "banner", Bio: "bio", Website: "site",
		}))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	ctx := context.Background()
	created := time.Now()

	session := &domain.Session{
		SessionID:      "3f6ad119-21a5-4bb0-b8b7-7fe60fca1f19",
		UserID:         1,
		ClientOS:       "Linux",
		ClientName:     "Firefox",
		DeviceLocation: "London, UK",
		CreatedAt:      created,
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(session.SessionID, session.UserID, session.ClientOS, session.ClientName,
			session.DeviceLocation, session.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Create(ctx, session))

	sessionColumns := []string{"session_id", "user_id", "client_os", "client_name", "device_location", "created_at"}

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT session_id").
			WithArgs(session.SessionID).
			WillReturnRows(pgxmock.NewRows(sessionColumns).
				AddRow(session.SessionID, session.UserID, session.ClientOS, session.ClientName,
					session.DeviceLocation, created))

		got, err := r.GetByID(ctx, session.SessionID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.UserID, got.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT session_id").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		got, err := r.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	ctx := context.Background()

	// Zero affected rows is still success: delete is idempotent.
	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, r.Delete(ctx, "gone"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewSessionRepository(mock)
	sessionColumns := []string{"session_id", "user_id", "client_os", "client_name", "device_location", "created_at"}
	now := time.Now()

	mock.ExpectQuery("SELECT session_id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(sessionColumns).
			AddRow("s2", int64(1), "Android", "Chrome", "Paris, FR", now).
			AddRow("s1", int64(1), "Linux", "Firefox", "London, UK", now.Add(-time.Hour)))

	sessions, err := r.ListByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s2", sessions[0].SessionID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
