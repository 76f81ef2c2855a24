package backend

// loginResponse tolerates the credential field drift seen across backend
// revisions: some issue "access", older ones issue "token".
type loginResponse struct {
	Access string `json:"access"`
	Token  string `json:"token"`
}

func (r loginResponse) credential() string {
	if r.Access != "" {
		return r.Access
	}
	return r.Token
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type reviewRequest struct {
	AdminFeedback string `json:"admin_feedback"`
	Status        string `json:"status"`
}

// Questionnaire carries the subset of upstream questionnaire fields the
// gateway surfaces to its pages.
type Questionnaire struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	AdminFeedback string `json:"admin_feedback"`
	ReviewedBy    string `json:"reviewed_by,omitempty"`
	SubmittedAt   string `json:"submitted_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// ReviewResult is the backend's acknowledgement of a review submission.
type ReviewResult struct {
	Status        string `json:"status"`
	AdminFeedback string `json:"admin_feedback"`
}
