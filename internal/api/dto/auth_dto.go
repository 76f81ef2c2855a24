package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest payload for new accounts. Password2 is the upstream
// backend's confirmation field and is forwarded verbatim.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// ReviewRequest payload for admin review submissions.
type ReviewRequest struct {
	AdminFeedback string `json:"admin_feedback"`
	Status        string `json:"status"`
}
