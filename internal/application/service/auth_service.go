package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/utils"
)

const resetTokenTTL = time.Hour

var errInvalidResetToken = apperror.NewBadRequestError("Invalid or expired reset token")

// Mailer sends account emails.
type Mailer interface {
	Enabled() bool
	SendPasswordReset(toEmail, token string) error
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	mailer            Mailer
	log               *logger.Logger
	now               func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	mailer Mailer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		mailer:            mailer,
		log:               log,
		now:               time.Now,
	}
}

// LoginInput represents the login input. Identifier is a username or an email.
type LoginInput struct {
	Identifier string
	Password   string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user by username or email and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	identifier := strings.TrimSpace(input.Identifier)
	email := strings.ToLower(identifier)
	if !strings.Contains(identifier, "@") {
		resolved, err := s.userRepo.LookupEmail(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if resolved == "" {
			return nil, apperror.ErrInvalidCredentials
		}
		email = resolved
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err = s.userRepo.GetWithRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates a cashier account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}
	existing, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.userRepo.AssignRole(ctx, user.ID, entity.RoleCashier); err != nil {
		s.log.Warn(ctx, "failed to assign cashier role", err)
	}
	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Username, user.RoleNames())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// ForgotPassword mails a reset token. Unknown addresses succeed silently so
// callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error(ctx, "password reset lookup failed", err)
		return nil
	}
	if user == nil {
		return nil
	}
	if s.mailer == nil || !s.mailer.Enabled() {
		s.log.Warn(ctx, "password reset requested but email is not configured", nil)
		return nil
	}

	if err := s.passwordResetRepo.DeleteByEmail(ctx, email); err != nil {
		s.log.Warn(ctx, "failed to clear previous reset tokens", err)
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := s.passwordResetRepo.Create(ctx, &entity.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: s.now().Add(resetTokenTTL),
	}); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(email, token); err != nil {
		s.log.Error(ctx, "failed to send password reset email", err)
		return err
	}
	return nil
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

// ResetPassword sets a new password using a valid, unused token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	resetToken, err := s.passwordResetRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if resetToken == nil || resetToken.Email != email || !resetToken.IsValid(s.now()) {
		return errInvalidResetToken
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return errInvalidResetToken
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	return s.passwordResetRepo.MarkAsUsed(ctx, input.Token)
}
