package services

import (
	"context"
	"errors"
	"fmt"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repositories"
	"learnhub/utils"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MaxFailedLogins = 5
	LoginLockout    = 15 * time.Minute
)

// TokenFunc signs an access token for a user.
type TokenFunc func(user *models.User) (string, error)

type AuthService struct {
	store     repositories.Store
	signToken TokenFunc
	notifier  Notifier
	saltRound int
	log       *logger.Logger
	now       func() time.Time
}

func NewAuthService(store repositories.Store, signToken TokenFunc, notifier Notifier, saltRound int, log *logger.Logger) *AuthService {
	if saltRound < bcrypt.MinCost {
		saltRound = bcrypt.DefaultCost
	}
	return &AuthService{
		store:     store,
		signToken: signToken,
		notifier:  notifier,
		saltRound: saltRound,
		log:       log.With("service", "AuthService"),
		now:       time.Now,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Signup creates a student or instructor account. Admins are never created here.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleInstructor {
		return nil, fmt.Errorf("role %q cannot sign up: %w", role, ErrInvalidInput)
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.saltRound)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		Password:      string(hashed),
		Role:          role,
		IsActive:      true,
		AccountStatus: models.AccountActive,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User signed up", "user_id", user.ID, "role", role)
	s.sendAsync(utils.WelcomeEmail(user.Email, user.Name))
	return user, nil
}

type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// Login verifies credentials and returns the user with a signed token. After
// MaxFailedLogins wrong passwords the account is locked for LoginLockout.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	user, err := s.store.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredential
		}
		return nil, "", err
	}

	now := s.now()
	if user.IsBlocked(now) {
		return nil, "", ErrAccountLocked
	}
	if !user.IsActive || user.AccountStatus == models.AccountSuspended {
		return nil, "", fmt.Errorf("account suspended: %w", ErrNotAuthorized)
	}

	attempts := user.FailedLoginAttempts
	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > LoginLockout {
		attempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		attempts++
		fields := map[string]interface{}{
			"failed_login_attempts": attempts,
			"last_failed_login":     now,
		}
		if attempts >= MaxFailedLogins {
			fields["blocked_until"] = now.Add(LoginLockout)
			fields["failed_login_attempts"] = 0
			s.log.Warn("Account locked after failed logins", "user_id", user.ID)
		}
		if err := s.store.Users().UpdateFields(ctx, user.ID, fields); err != nil {
			s.log.Error("Error recording failed login", "user_id", user.ID, "error", err)
		}
		return nil, "", ErrInvalidCredential
	}

	if err := s.store.Users().UpdateFields(ctx, user.ID, map[string]interface{}{
		"failed_login_attempts": 0,
		"last_failed_login":     nil,
		"blocked_until":         nil,
		"last_login":            now,
	}); err != nil {
		s.log.Error("Error saving last login time", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now
	user.FailedLoginAttempts = 0

	if err := s.store.LoginHistory().Create(ctx, &models.LoginTracking{
		UserID:    user.ID,
		IPAddress: in.IP,
		Device:    in.UserAgent,
		Timestamp: now,
	}); err != nil {
		s.log.Error("Error saving login tracking details", "user_id", user.ID, "error", err)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("User logged in", "user_id", user.ID, "ip", in.IP)
	s.sendAsync(utils.LoginNotificationEmail(user.Email, user.Name, in.IP, in.UserAgent, now.Format(time.RFC1123)))
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

type ProfileInput struct {
	Name   *string
	Bio    *string
	Avatar *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		fields["avatar"] = *in.Avatar
	}
	if err := s.store.Users().UpdateFields(ctx, userID, fields); err != nil {
		return nil, notFound(err, "user")
	}
	return s.Me(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredential
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), s.saltRound)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Users().UpdateFields(ctx, userID, map[string]interface{}{"password": string(hashed)})
}

func (s *AuthService) LoginHistory(ctx context.Context, userID uint, limit int) ([]models.LoginTracking, error) {
	return s.store.LoginHistory().ListByUser(ctx, userID, limit)
}

func (s *AuthService) sendAsync(email utils.Email) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, email); err != nil {
			s.log.Warn("Email failed", "subject", email.Subject, "error", err)
		}
	}()
}
