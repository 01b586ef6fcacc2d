package dto

type RecoverInput struct {
	Email string `json:"email"`
}

type ResetPasswordInput struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Token           string `json:"token"`
}

type VerifyEmailInput struct {
	Token string `json:"token"`
}
