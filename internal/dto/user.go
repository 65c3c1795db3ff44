package dto

// LoginRequest is the body for POST /api/auth/login, as JSON or a form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest is the body for POST /api/auth/register, as JSON or a form.
// bcrypt ignores input past 72 bytes.
type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=254"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionResponse is returned by GET /api/auth/session. User is null when signed out.
type SessionResponse struct {
	User *UserResponse `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
