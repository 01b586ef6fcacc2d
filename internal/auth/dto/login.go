package dto

type LoginInput struct {
	// Input is either a username or an email address; values containing "@"
	// are looked up by email.
	Input    string `json:"input"`
	Password string `json:"password"`

	ClientOS       string `json:"clientOS"`
	ClientName     string `json:"clientName"`
	DeviceLocation string `json:"deviceLocation"`
}
