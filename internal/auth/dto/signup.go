package dto

import "time"

type SignupInput struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Password  string    `json:"password"`
	Gender    string    `json:"gender"`
	BirthDate time.Time `json:"birthDate"`
}
