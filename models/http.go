package models

// SignupRequest is the body of POST /api/user/register.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// LoginRequest is the body of POST /api/user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login alongside the
// Authorization header.
type AuthResponse struct {
	User User `json:"user"`
}

// HistoryResponse wraps the caller's history.
type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// DetectResponse is returned by POST /api/detect.
type DetectResponse struct {
	Result AnalysisResult `json:"result"`
	Item   *HistoryItem   `json:"item,omitempty"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries a fixed human-readable failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}
