package dto

// RefreshResponse deliberately carries no failure detail beyond ok=false.
type RefreshResponse struct {
	OK          bool   `json:"ok"`
	AccessToken string `json:"accessToken"`
	SessionID   string `json:"sessionId"`
}
