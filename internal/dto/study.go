package dto

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// ExtractionResponse is returned by the backend's /ocr endpoint and by the gateway's /api/upload.
type ExtractionResponse struct {
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// CredentialsRequest is shared by login and register.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

// SessionUser describes the logged-in user as far as the unverified token claims tell.
type SessionUser struct {
	Subject   string `json:"subject"`
	ExpiresAt string `json:"expires_at,omitempty"`
}
