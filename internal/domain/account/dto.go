// internal/domain/account/dto.go
package account

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=128"`
	LegalAgree bool   `json:"legal_agree"`
	// PlanName, when set, starts a checkout for a predefined plan right
	// after signup.
	PlanName string `json:"plan_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangeEmailRequest struct {
	NewEmail string `json:"new_email" binding:"required,email"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// LoginResponse carries the issued token pair and the account projection.
// CheckoutURL is only set when registration requested a plan signup.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	Account      *AccountView `json:"account"`
	CheckoutURL  string       `json:"checkout_url,omitempty"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=5000"`
}

// AccountView is the client-facing projection of an account.
type AccountView struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	HasUsedTrial  bool   `json:"has_used_trial"`
	SubExpired    bool   `json:"sub_expired"`
}

// View builds an AccountView; subExpired reports whether the account once had
// a subscription but currently has no active one.
func (a *Account) View(subExpired bool) *AccountView {
	return &AccountView{
		ID:            a.ID,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
		HasUsedTrial:  a.HasUsedTrial,
		SubExpired:    subExpired,
	}
}
