package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/square-net/server/internal/auth/domain UserRepository,SessionRepository,Mailer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/square-net/server/config"
	"github.com/square-net/server/internal/auth/domain"
	"github.com/square-net/server/internal/auth/dto"
	"github.com/square-net/server/internal/auth/password"
	autherror "github.com/square-net/server/internal/errors"
	"github.com/square-net/server/internal/logging"
	"github.com/square-net/server/pkg/constant"
)

const (
	statusLoggedIn           = "You are now logged in."
	statusEmailNotVerified   = "Your email address is not verified. We just sent you an email containing the instructions for verification."
	statusSignupCheckInbox   = "Check your inbox, we just sent you an email with the instructions to verify your account."
	statusEmailVerified      = "Your email address is now verified, so you can log in."
	statusVerifyFailed       = "An error has occurred. Please repeat the email address verification."
	statusRecoveryCheckInbox = "Check your inbox, we just sent you an email with the instructions to recover your account password."
	statusPasswordChanged    = "The password has been changed, now you can log in."
	statusRecoveryFailed     = "An error has occurred. Please repeat the password recovery operation."
	statusProfileUpdated     = "Your profile has been updated."
)

type UserService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   TokenGenerator
	hasher   password.Hasher
	mailer   domain.Mailer
	cfg      *config.Config
	log      logging.Logger
}

func NewUserService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens TokenGenerator,
	hasher password.Hasher,
	mailer domain.Mailer,
	cfg *config.Config,
	log logging.Logger,
) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		mailer:   mailer,
		cfg:      cfg,
		log:      log,
	}
}

// Login resolves the identifier, verifies the password and, for verified
// accounts, opens a new device session. The returned refresh token is empty
// unless a session was created; the caller delivers it via the cookie.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.UserResponse, string, error) {
	var user *domain.User
	var err error

	if strings.Contains(input.Input, "@") {
		user, err = s.users.GetByEmail(ctx, input.Input)
	} else {
		user, err = s.users.GetByUsername(ctx, input.Input)
	}
	if err != nil {
		return nil, "", err
	}

	if user == nil {
		return &dto.UserResponse{
			Errors: []dto.FieldError{{Field: "input", Message: "Sorry, but we can't find your account"}},
		}, "", nil
	}

	valid, err := s.hasher.Verify(user.PasswordHash, input.Password)
	if err != nil {
		return nil, "", err
	}
	if !valid {
		return &dto.UserResponse{
			Errors: []dto.FieldError{{Field: "password", Message: "Incorrect password"}},
		}, "", nil
	}

	if !user.EmailVerified {
		s.sendVerification(ctx, user)

		return &dto.UserResponse{
			User:   dto.NewUserOutput(user),
			Status: statusEmailNotVerified,
		}, "", nil
	}

	session := &domain.Session{
		SessionID:      uuid.NewString(),
		UserID:         user.ID,
		ClientOS:       input.ClientOS,
		ClientName:     input.ClientName,
		DeviceLocation: input.DeviceLocation,
		CreatedAt:      time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, session.SessionID, user.TokenVersion)
	if err != nil {
		return nil, "", err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, session.SessionID, user.TokenVersion)
	if err != nil {
		return nil, "", err
	}

	return &dto.UserResponse{
		User:        dto.NewUserOutput(user),
		AccessToken: accessToken,
		Status:      statusLoggedIn,
	}, refreshToken, nil
}

// Refresh validates a presented refresh token and, on success, rotates it.
// A refresh token is valid iff its signature verifies, it has not expired,
// its token version equals the user's current version, and its session still
// exists. Any failure collapses to ok=false with no detail.
//
// Rotation policy: tokens are stateless, so a superseded token keeps working
// until its own expiry as long as those conditions hold. Two refreshes racing
// over the same token therefore both succeed; the cookie simply ends up with
// whichever rotation landed last.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, string) {
	denied := &dto.RefreshResponse{}

	if refreshToken == "" {
		return denied, ""
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return denied, ""
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		s.log.Error(ctx, "refresh: user lookup failed", "error", err)
		return denied, ""
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		s.log.Error(ctx, "refresh: session lookup failed", "error", err)
		return denied, ""
	}

	if user == nil || session == nil {
		return denied, ""
	}

	// The global kill-switch: any version bump since issuance fails here.
	if user.TokenVersion != claims.TokenVersion {
		return denied, ""
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken(user.ID, session.SessionID, user.TokenVersion)
	if err != nil {
		s.log.Error(ctx, "refresh: token generation failed", "error", err)
		return denied, ""
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, session.SessionID, user.TokenVersion)
	if err != nil {
		s.log.Error(ctx, "refresh: token generation failed", "error", err)
		return denied, ""
	}

	return &dto.RefreshResponse{
		OK:          true,
		AccessToken: accessToken,
		SessionID:   session.SessionID,
	}, newRefreshToken
}

// Logout deletes the session backing the presented token. Idempotent.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return s.sessions.Delete(ctx, sessionID)
}

// RevokeAllSessions invalidates every outstanding access and refresh token
// for the user with a single atomic counter bump. Session rows are left in
// place so the device list stays accurate; they just can't mint tokens
// anymore.
func (s *UserService) RevokeAllSessions(ctx context.Context, userID int64) error {
	return s.users.IncrementTokenVersion(ctx, userID)
}

func (s *UserService) Signup(ctx context.Context, input dto.SignupInput) (*dto.UserResponse, error) {
	fieldErrors := validateSignup(input)
	if len(fieldErrors) > 0 {
		return &dto.UserResponse{Errors: fieldErrors}, nil
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Username:      input.Username,
		Email:         input.Email,
		PasswordHash:  hash,
		Gender:        input.Gender,
		BirthDate:     input.BirthDate,
		EmailVerified: false,
		TokenVersion:  0,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, autherror.ErrUsernameTaken):
			fieldErrors = append(fieldErrors, dto.FieldError{Field: "username", Message: "Username already taken"})
		case errors.Is(err, autherror.ErrEmailAlreadyInUse):
			fieldErrors = append(fieldErrors, dto.FieldError{Field: "email", Message: "A user using this email already exists"})
		default:
			return nil, err
		}

		return &dto.UserResponse{Errors: fieldErrors}, nil
	}

	s.sendVerification(ctx, user)

	return &dto.UserResponse{
		User:   dto.NewUserOutput(user),
		Status: statusSignupCheckInbox,
	}, nil
}

// VerifyEmail flips emailVerified exactly once. Every failure mode yields the
// same retry-later status so token validity internals never leak.
func (s *UserService) VerifyEmail(ctx context.Context, token string) *dto.UserResponse {
	claims, err := s.tokens.VerifyActionToken(token, constant.PurposeVerify)
	if err != nil {
		return &dto.UserResponse{Status: statusVerifyFailed}
	}

	if err := s.users.SetEmailVerified(ctx, claims.UserID); err != nil {
		s.log.Error(ctx, "verify email: update failed", "error", err)
		return &dto.UserResponse{Status: statusVerifyFailed}
	}

	return &dto.UserResponse{Status: statusEmailVerified}
}

func (s *UserService) RequestPasswordRecovery(ctx context.Context, email string) (*dto.UserResponse, error) {
	if email == "" || !strings.Contains(email, "@") {
		return &dto.UserResponse{
			Errors: []dto.FieldError{{Field: "email", Message: "Invalid email"}},
		}, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return &dto.UserResponse{
			Errors: []dto.FieldError{{Field: "email", Message: "This email address is not associated with any account"}},
		}, nil
	}

	// An account that never completed signup can't recover a password; send
	// the verification instructions again instead.
	if !user.EmailVerified {
		s.sendVerification(ctx, user)
		return &dto.UserResponse{Status: statusEmailNotVerified}, nil
	}

	token, err := s.tokens.GenerateActionToken(user.ID, constant.PurposeRecover)
	if err != nil {
		return nil, err
	}

	link := s.cfg.ClientOrigin + "/modify-password/" + token
	if err := s.mailer.Send(ctx, user.Email, domain.MailRecover, link); err != nil {
		s.log.Error(ctx, "recovery mail delivery failed", "error", err, "email", user.Email)
	}

	return &dto.UserResponse{Status: statusRecoveryCheckInbox}, nil
}

func (s *UserService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) (*dto.UserResponse, error) {
	var fieldErrors []dto.FieldError

	if len(input.Password) <= 2 {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "password", Message: "The password length must be greater than 2"})
	}
	if len(input.ConfirmPassword) <= 2 {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "confirmPassword", Message: "The confirmation password length must be greater than 2"})
	}
	if input.Password != input.ConfirmPassword {
		fieldErrors = append(fieldErrors,
			dto.FieldError{Field: "password", Message: "The two passwords do not match"},
			dto.FieldError{Field: "confirmPassword", Message: "The two passwords do not match"},
		)
	}

	if len(fieldErrors) > 0 {
		return &dto.UserResponse{Errors: fieldErrors}, nil
	}

	claims, err := s.tokens.VerifyActionToken(input.Token, constant.PurposeRecover)
	if err != nil {
		return &dto.UserResponse{Status: statusRecoveryFailed}, nil
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		return nil, err
	}

	// Existing sessions survive a recovery reset unless configured otherwise.
	if s.cfg.RevokeSessionsOnPasswordReset {
		if err := s.users.IncrementTokenVersion(ctx, claims.UserID); err != nil {
			return nil, err
		}
	}

	return &dto.UserResponse{Status: statusPasswordChanged}, nil
}

func (s *UserService) Me(ctx context.Context, userID int64) (*dto.UserOutput, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewUserOutput(user), nil
}

func (s *UserService) EditProfile(ctx context.Context, userID int64, input dto.EditProfileInput) (*dto.UserResponse, error) {
	var fieldErrors []dto.FieldError

	if input.FirstName == "" {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "firstName", Message: "The first name field cannot be empty"})
	}
	if input.LastName == "" {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "lastName", Message: "The last name field cannot be empty"})
	}

	if len(fieldErrors) > 0 {
		return &dto.UserResponse{Errors: fieldErrors}, nil
	}

	profile := domain.Profile{
		ProfilePicture: input.ProfilePicture,
		ProfileBanner:  input.ProfileBanner,
		Bio:            input.Bio,
		Website:        input.Website,
	}
	if err := s.users.UpdateProfile(ctx, userID, input.FirstName, input.LastName, profile); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserResponse{
		User:   dto.NewUserOutput(user),
		Status: statusProfileUpdated,
	}, nil
}

// FindUser looks a user up by username for public profile pages. Returns nil
// when no such user exists.
func (s *UserService) FindUser(ctx context.Context, username string) (*dto.UserOutput, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return dto.NewUserOutput(user), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]dto.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, dto.PublicUser{
			Name:   u.FirstName + " " + u.LastName,
			Link:   "/" + u.Username,
			Avatar: u.Profile.ProfilePicture,
		})
	}

	return out, nil
}

func (s *UserService) ListSessions(ctx context.Context, userID int64) ([]*dto.SessionOutput, error) {
	sessions, err := s.sessions.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SessionOutput, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, dto.NewSessionOutput(sess))
	}

	return out, nil
}

// sendVerification mints a verification token and mails the link. Best
// effort: failures are logged, never surfaced.
func (s *UserService) sendVerification(ctx context.Context, user *domain.User) {
	token, err := s.tokens.GenerateActionToken(user.ID, constant.PurposeVerify)
	if err != nil {
		s.log.Error(ctx, "verification token generation failed", "error", err, "user_id", user.ID)
		return
	}

	link := s.cfg.ClientOrigin + "/verify/" + token
	if err := s.mailer.Send(ctx, user.Email, domain.MailVerify, link); err != nil {
		s.log.Error(ctx, "verification mail delivery failed", "error", err, "email", user.Email)
	}
}

func validateSignup(input dto.SignupInput) []dto.FieldError {
	var fieldErrors []dto.FieldError

	if input.Email == "" || !strings.Contains(input.Email, "@") {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "email", Message: "Invalid email"})
	}
	if strings.Contains(input.Username, "@") {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "username", Message: "The username field cannot contain @"})
	}
	if len(input.Username) <= 2 {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "username", Message: "The username length must be greater than 2"})
	}
	if len(input.Password) <= 2 {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "password", Message: "The password length must be greater than 2"})
	}
	if input.FirstName == "" {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "firstName", Message: "The first name field cannot be empty"})
	}
	if input.LastName == "" {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "lastName", Message: "The last name field cannot be empty"})
	}
	if input.Gender == "" || input.Gender == "Gender" {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "gender", Message: "The gender field cannot take this value"})
	}
	if ageInYears(input.BirthDate) < constant.MinimumSignupAge {
		fieldErrors = append(fieldErrors, dto.FieldError{Field: "birthDate", Message: "Users under the age of 13 cannot sign up to the platform"})
	}

	return fieldErrors
}

// ageInYears approximates age as elapsed days over 365, so the result can
// drift a few days around a birthday near the cutoff. Good enough for the
// minimum-age gate.
func ageInYears(birthDate time.Time) int {
	return int(time.Since(birthDate).Hours() / 24 / 365)
}
