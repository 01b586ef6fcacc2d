package dto

import (
	"time"

	"github.com/square-net/server/internal/auth/domain"
)

type ProfileOutput struct {
	ProfilePicture string `json:"profilePicture,omitempty"`
	ProfileBanner  string `json:"profileBanner,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Website        string `json:"website,omitempty"`
}

type UserOutput struct {
	ID            int64         `json:"id"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	Gender        string        `json:"gender"`
	BirthDate     time.Time     `json:"birthDate"`
	EmailVerified bool          `json:"emailVerified"`
	Profile       ProfileOutput `json:"profile"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// UserResponse is the common mutation result shape: a list of field-tagged
// errors, the affected user, an in-band access token and a status message.
// Any of them may be empty.
type UserResponse struct {
	Errors      []FieldError `json:"errors,omitempty"`
	User        *UserOutput  `json:"user,omitempty"`
	AccessToken string       `json:"accessToken,omitempty"`
	Status      string       `json:"status,omitempty"`
}

// PublicUser is the directory-listing shape.
type PublicUser struct {
	Name   string `json:"name"`
	Link   string `json:"link"`
	Avatar string `json:"avatar,omitempty"`
}

type SessionOutput struct {
	SessionID      string    `json:"sessionId"`
	ClientOS       string    `json:"clientOS"`
	ClientName     string    `json:"clientName"`
	DeviceLocation string    `json:"deviceLocation"`
	CreatedAt      time.Time `json:"createdAt"`
}

type EditProfileInput struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
	ProfileBanner  string `json:"profileBanner"`
	Bio            string `json:"bio"`
	Website        string `json:"website"`
}

func NewUserOutput(u *domain.User) *UserOutput {
	if u == nil {
		return nil
	}

	return &UserOutput{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Username:      u.Username,
		Email:         u.Email,
		Gender:        u.Gender,
		BirthDate:     u.BirthDate,
		EmailVerified: u.EmailVerified,
		Profile: ProfileOutput{
			ProfilePicture: u.Profile.ProfilePicture,
			ProfileBanner:  u.Profile.ProfileBanner,
			Bio:            u.Profile.Bio,
			Website:        u.Profile.Website,
		},
		CreatedAt: u.CreatedAt,
	}
}

func NewSessionOutput(s *domain.Session) *SessionOutput {
	if s == nil {
		return nil
	}

	return &SessionOutput{
		SessionID:      s.SessionID,
		ClientOS:       s.ClientOS,
		ClientName:     s.ClientName,
		DeviceLocation: s.DeviceLocation,
		CreatedAt:      s.CreatedAt,
	}
}
