package domain

import "time"

type Profile struct {
	ProfilePicture string
	ProfileBanner  string
	Bio            string
	Website        string
}

type User struct {
	ID            int64
	FirstName     string
	LastName      string
	Username      string
	Email         string
	PasswordHash  string
	Gender        string
	BirthDate     time.Time
	EmailVerified bool
	Profile       Profile
	TokenVersion  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session is one logged-in device. The session id is an opaque random
// identifier; it never changes once issued and is deleted, not mutated,
// on logout.
type Session struct {
	SessionID      string
	UserID         int64
	ClientOS       string
	ClientName     string
	DeviceLocation string
	CreatedAt      time.Time
}
