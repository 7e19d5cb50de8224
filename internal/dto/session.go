package dto

// SessionRequest is the HR gate login payload.
type SessionRequest struct {
	Password string `json:"password"`
}

// SessionResponse reports whether the caller's session holds the HR flag.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}
