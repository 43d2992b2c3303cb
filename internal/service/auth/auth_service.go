// internal/service/auth/auth_service.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftcare-service/internal/domain/account"
	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"
	"shiftcare-service/internal/pkg/jwt"
	"shiftcare-service/internal/pkg/session"
	"shiftcare-service/internal/service/email"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeHash is a valid bcrypt digest compared against when the stored account
// has no password, so the credential check costs the same either way.
const fakeHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8flDje6flYl1dQ3uQ/kAAf0PD2qYB2"

// AccountStore is the slice of the repository layer the auth service needs.
type AccountStore interface {
	Create(ctx context.Context, acc *account.Account) error
	FindByID(ctx context.Context, id int64) (*account.Account, error)
	FindByEmail(ctx context.Context, email string) (*account.Account, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	MarkEmailVerified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// BillingGateway covers the billing operations the account lifecycle touches:
// starting a checkout when signup requests a plan, and terminating any live
// subscription before the account row cascades away.
type BillingGateway interface {
	StartCheckout(ctx context.Context, accountID int64, plan billing.PlanName) (string, error)
	CancelSubscription(ctx context.Context, accountID int64) error
}

type AuthService struct {
	accounts       AccountStore
	billing        BillingGateway
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	emailSender    *email.EmailSender
	webServerURL   string
	logger         *zap.Logger
}

func NewAuthService(
	accounts AccountStore,
	billing BillingGateway,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	emailSender *email.EmailSender,
	webServerURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accounts:       accounts,
		billing:        billing,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		emailSender:    emailSender,
		webServerURL:   webServerURL,
		logger:         logger,
	}
}

// Register creates a new account and logs it in. A plan name on the request
// additionally starts a checkout for that predefined plan.
func (s *AuthService) Register(ctx context.Context, req *account.RegisterRequest, ip, userAgent string) (*account.LoginResponse, error) {
	plan := billing.PlanName(req.PlanName)
	if plan != "" && !billing.IsPredefined(plan) {
		return nil, fmt.Errorf("%w: unknown plan %q", xerrors.ErrInvalidInput, req.PlanName)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := &account.Account{
		Email:          req.Email,
		HashedPassword: sql.NullString{String: string(hashed), Valid: true},
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	if err := s.sendVerificationEmail(acc); err != nil {
		// Registration stands even if the verification mail bounces.
		s.logger.Error("failed to send verification email",
			zap.Int64("account_id", acc.ID), zap.Error(err))
	}

	s.logger.Info("account registered", zap.Int64("account_id", acc.ID))
	resp, err := s.issueTokens(ctx, acc, ip, userAgent)
	if err != nil {
		return nil, err
	}
	if plan != "" {
		resp.CheckoutURL = s.signupCheckout(ctx, acc.ID, plan)
	}
	return resp, nil
}

// signupCheckout is best effort; on failure the account stands and the client
// can start a checkout through the billing endpoints instead.
func (s *AuthService) signupCheckout(ctx context.Context, accountID int64, plan billing.PlanName) string {
	url, err := s.billing.StartCheckout(ctx, accountID, plan)
	if err != nil {
		s.logger.Error("failed to start signup checkout",
			zap.Int64("account_id", accountID), zap.Error(err))
		return ""
	}
	return url
}

// Login authenticates with email and password.
func (s *AuthService) Login(ctx context.Context, req *account.LoginRequest, ip, userAgent string) (*account.LoginResponse, error) {
	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	acc, err := s.accounts.FindByEmail(ctx, req.Email)
	if errors.Is(err, xerrors.ErrNotFound) {
		// Burn the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword([]byte(fakeHash), []byte(req.Password))
		return nil, xerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := verifyPassword(acc.HashedPassword, req.Password); err != nil {
		return nil, err
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}
	return s.issueTokens(ctx, acc, ip, userAgent)
}

// verifyPassword compares a stored hash with a candidate password. Accounts
// without a stored password still pay for one bcrypt comparison, keeping the
// failure timing indistinguishable.
func verifyPassword(hashed sql.NullString, password string) error {
	stored := fakeHash
	if hashed.Valid {
		stored = hashed.String
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
		return xerrors.ErrInvalidCredentials
	}
	if !hashed.Valid {
		return xerrors.ErrInvalidCredentials
	}
	return nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*account.LoginResponse, error) {
	claims, err := s.jwtManager.Verifier.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	acc, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}
	return s.issueTokens(ctx, acc, ip, userAgent)
}

// Logout invalidates the current session and blacklists its token.
func (s *AuthService) Logout(ctx context.Context, accountID int64, jti string) error {
	if err := s.sessionManager.InvalidateSession(ctx, accountID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	if err := s.sessionManager.BlacklistToken(ctx, jti, s.jwtManager.Generator.Ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// Account loads the account by ID.
func (s *AuthService) Account(ctx context.Context, accountID int64) (*account.Account, error) {
	return s.accounts.FindByID(ctx, accountID)
}

// ChangeEmail updates the address and restarts verification.
func (s *AuthService) ChangeEmail(ctx context.Context, accountID int64, req *account.ChangeEmailRequest) error {
	if err := s.accounts.UpdateEmail(ctx, accountID, req.NewEmail); err != nil {
		return err
	}

	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if err := s.sendVerificationEmail(acc); err != nil {
		s.logger.Error("failed to send verification email",
			zap.Int64("account_id", accountID), zap.Error(err))
	}
	return nil
}

// VerifyEmail confirms the address from an emailed token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtManager.Verifier.VerifyEmailVerificationToken(token)
	if err != nil {
		return xerrors.ErrUnauthorized
	}
	return s.accounts.MarkEmailVerified(ctx, claims.AccountID)
}

// RequestPasswordReset emails a reset link to the account. An unknown address
// is not reported back to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *account.RequestPasswordResetRequest) error {
	acc, err := s.accounts.FindByEmail(ctx, req.Email)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	token, _, err := s.jwtManager.Generator.GeneratePasswordResetToken(acc.ID)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.webServerURL, token)
	if err := s.emailSender.SendPasswordResetEmail(acc.Email, resetURL); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password from an emailed reset token and kills
// every live session.
func (s *AuthService) ResetPassword(ctx context.Context, req *account.ResetPasswordRequest) error {
	claims, err := s.jwtManager.Verifier.VerifyPasswordResetToken(req.Token)
	if err != nil {
		return xerrors.ErrUnauthorized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, claims.AccountID, string(hashed)); err != nil {
		return err
	}

	if err := s.sessionManager.InvalidateAllAccountSessions(ctx, claims.AccountID); err != nil {
		s.logger.Warn("failed to invalidate sessions after password reset",
			zap.Int64("account_id", claims.AccountID), zap.Error(err))
	}
	return nil
}

// ChangePassword verifies the current password, stores the new hash and
// kills every live session.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int64, req *account.ChangePasswordRequest) error {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if err := verifyPassword(acc.HashedPassword, req.CurrentPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, string(hashed)); err != nil {
		return err
	}

	if err := s.sessionManager.InvalidateAllAccountSessions(ctx, accountID); err != nil {
		s.logger.Warn("failed to invalidate sessions after password change",
			zap.Int64("account_id", accountID), zap.Error(err))
	}
	return nil
}

// DeleteAccount cancels live billing, removes the account row (dependents
// cascade) and kills every session.
func (s *AuthService) DeleteAccount(ctx context.Context, accountID int64) error {
	if err := s.billing.CancelSubscription(ctx, accountID); err != nil &&
		!errors.Is(err, xerrors.ErrNoActiveSubscription) {
		return fmt.Errorf("failed to cancel subscription before deletion: %w", err)
	}

	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return err
	}

	if err := s.sessionManager.InvalidateAllAccountSessions(ctx, accountID); err != nil {
		s.logger.Warn("failed to invalidate sessions after deletion",
			zap.Int64("account_id", accountID), zap.Error(err))
	}

	s.logger.Info("account deleted", zap.Int64("account_id", accountID))
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, acc *account.Account, ip, userAgent string) (*account.LoginResponse, error) {
	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(acc.ID, jwt.RoleAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, _, err := s.jwtManager.Generator.GenerateRefreshToken(acc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtManager.Generator.Ttl)
	sess := &session.SessionData{
		JTI:            jti,
		AccountID:      acc.ID,
		Email:          acc.Email,
		Role:           jwt.RoleAccount,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.sessionManager.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &account.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtManager.Generator.Ttl.Seconds()),
		Account:      acc.View(false),
	}, nil
}

func (s *AuthService) sendVerificationEmail(acc *account.Account) error {
	token, _, err := s.jwtManager.Generator.GenerateEmailVerificationToken(acc.ID)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.webServerURL, token)
	return s.emailSender.SendVerificationEmail(acc.Email, verifyURL)
}
