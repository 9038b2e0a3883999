// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/pkg/validation"
	"kelly-ai-client/internal/repository/contract"
	"kelly-ai-client/pkg/authapi"

	"github.com/golang-jwt/jwt/v5"
)

const (
	msgFillAllFields   = "Please fill in all fields."
	msgInvalidEmail    = "Please enter a valid email address."
	msgShortPassword   = "Password must be at least 6 characters long."
	msgDefaultError    = "An error occurred"
	msgAuthFailed      = "Authentication failed"
	msgInvalidResponse = "Invalid response from server"
	msgSignupWelcome   = "Your account has been created successfully."
)

type IAuthService interface {
	Signup(ctx context.Context, req *dto.AuthRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.AuthRequest) (*dto.AuthResponse, error)
	CheckExistingAuth(ctx context.Context) (*dto.SessionStatusResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) *dto.ProfileResponse
}

type authService struct {
	client      authapi.Authenticator
	credentials contract.CredentialRepository
	validator   *validation.Validator
	logger      logger.ILogger
	now         func() time.Time
}

func NewAuthService(client authapi.Authenticator, credentials contract.CredentialRepository, log logger.ILogger) IAuthService {
	return &authService{
		client:      client,
		credentials: credentials,
		validator:   validation.Get(),
		logger:      log,
		now:         time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.AuthRequest) (*dto.AuthResponse, error) {
	return s.authenticate(ctx, authapi.ModeSignup, req)
}

func (s *authService) Login(ctx context.Context, req *dto.AuthRequest) (*dto.AuthResponse, error) {
	return s.authenticate(ctx, authapi.ModeLogin, req)
}

func (s *authService) authenticate(ctx context.Context, mode authapi.Mode, req *dto.AuthRequest) (*dto.AuthResponse, error) {
	// 1. Validate before touching the network
	if err := s.validate(req); err != nil {
		return nil, err
	}

	// 2. Call the auth server
	res, err := s.client.Authenticate(ctx, mode, authapi.Credentials{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	})
	if err != nil {
		s.logger.Error("AuthService", "Network error", map[string]interface{}{
			"mode":  string(mode),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// 3. Refusal
	if !res.OK() {
		message := msgDefaultError
		if text, ok := res.Envelope.ErrorMessage(); ok {
			message = text
			if message == "" {
				message = msgAuthFailed
			}
		}
		s.logger.Warn("AuthService", "Auth failed", map[string]interface{}{
			"mode":   string(mode),
			"status": res.StatusCode,
		})
		return nil, &AuthError{Title: failureTitle(mode), Message: message}
	}

	// 4. Success shapes
	session, ok := sessionFromEnvelope(&res.Envelope)
	if !ok {
		return nil, &AuthError{Title: "Error", Message: msgInvalidResponse}
	}
	if err := s.credentials.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("AuthService", "Auth successful", map[string]interface{}{
		"mode":    string(mode),
		"user_id": session.UserId,
	})

	out := &dto.AuthResponse{
		UserId:    session.UserId,
		UserEmail: session.UserEmail,
		HasToken:  session.AccessToken != "",
	}
	if mode == authapi.ModeSignup && out.HasToken {
		out.Message = msgSignupWelcome
	}
	return out, nil
}

// validate reports the first problem in the order the form shows them.
func (s *authService) validate(req *dto.AuthRequest) error {
	fieldErrs, err := s.validator.Struct(req)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	switch {
	case validation.Has(fieldErrs, "", "required"):
		return &ValidationError{Message: msgFillAllFields}
	case validation.Has(fieldErrs, "email", "loose_email"):
		return &ValidationError{Message: msgInvalidEmail}
	case validation.Has(fieldErrs, "password", "min"):
		return &ValidationError{Message: msgShortPassword}
	}
	return nil
}

func sessionFromEnvelope(env *authapi.Envelope) (*entity.AuthSession, bool) {
	if env.Data == nil {
		return nil, false
	}
	if env.Data.Session != nil {
		session := &entity.AuthSession{
			AccessToken:  env.Data.Session.AccessToken,
			RefreshToken: env.Data.Session.RefreshToken,
		}
		if env.Data.User != nil {
			session.UserId = env.Data.User.Id
			session.UserEmail = env.Data.User.Email
		}
		return session, true
	}
	if env.Data.Id != "" {
		return &entity.AuthSession{
			UserId:    env.Data.Id,
			UserEmail: env.Data.Email,
		}, true
	}
	return nil, false
}

func failureTitle(mode authapi.Mode) string {
	if mode == authapi.ModeSignup {
		return "Signup Failed"
	}
	return "Login Failed"
}

// CheckExistingAuth treats a stored access token as a signed-in user. When the
// token is a JWT its expiry is reported too; the signature is not checked
// because the client never holds the server's key.
func (s *authService) CheckExistingAuth(ctx context.Context) (*dto.SessionStatusResponse, error) {
	token, found, err := s.credentials.AccessToken(ctx)
	if err != nil {
		s.logger.Warn("AuthService", "No existing auth found", map[string]interface{}{
			"error": err.Error(),
		})
		return &dto.SessionStatusResponse{}, nil
	}
	if !found {
		return &dto.SessionStatusResponse{}, nil
	}

	status := &dto.SessionStatusResponse{Authenticated: true}
	status.UserId, _ = s.credentials.UserId(ctx)
	status.UserEmail, _ = s.credentials.UserEmail(ctx)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			t := exp.Time
			status.ExpiresAt = &t
			status.Expired = s.now().After(t)
		}
		if status.UserId == "" {
			status.UserId, _ = claims.GetSubject()
		}
	}
	return status, nil
}

// Logout removes every session key. Failures are logged; the caller leaves
// the chat either way.
func (s *authService) Logout(ctx context.Context) error {
	if err := s.credentials.Clear(ctx); err != nil {
		s.logger.Error("AuthService", "Error during logout", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

func (s *authService) Profile(ctx context.Context) *dto.ProfileResponse {
	email, err := s.credentials.UserEmail(ctx)
	if err != nil {
		s.logger.Error("AuthService", "Error loading user data", map[string]interface{}{
			"error": err.Error(),
		})
		return &dto.ProfileResponse{}
	}
	return &dto.ProfileResponse{Email: email}
}
