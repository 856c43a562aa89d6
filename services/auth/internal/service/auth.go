package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	pkghash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/services/auth/internal/models"
	"github.com/Skotchmaster/storefront/services/auth/internal/repo"
)

const (
	EventUserRegistered = "user_registered"

	minPasswordLen = 6
	maxUsernameLen = 64
)

var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("user already exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Events    events.Publisher
	// Now is replaced in tests.
	Now func() time.Time
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	IsAdmin     bool
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func validate(username, password string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case utf8.RuneCountInString(username) > maxUsernameLen:
		return fmt.Errorf("%w: username is too long", ErrValidation)
	case password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if err := validate(username, password); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("%w: password must have at least %d characters", ErrValidation, minPasswordLen)
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{Username: username, PasswordHash: pwHash, Role: tokens.RoleUser}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return ErrConflict
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return err
	}

	if s.Events != nil {
		ev := events.NewEvent(EventUserRegistered, map[string]any{"userID": user.ID.String(), "username": user.Username})
		if err := s.Events.Publish(ctx, events.TopicUserEvents, user.ID.String(), ev); err != nil {
			l.Error("kafka_publish_error", "event", EventUserRegistered, "error", err)
		}
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if err := validate(username, password); err != nil {
		return nil, err
	}

	user, err := s.Repo.UserExist(ctx, username, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	accessExp := s.now().Add(tokens.AccessTTL)
	accessToken, err := tokens.SignAccessToken(user.ID.String(), user.Role, accessExp, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &LoginResult{
		AccessToken: accessToken,
		AccessExp:   accessExp,
		IsAdmin:     user.Role == tokens.RoleAdmin,
	}, nil
}

// EnsureAdmin registers username if needed and gives it the admin role.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if err := s.Register(ctx, username, password); err != nil && !errors.Is(err, ErrConflict) {
		return err
	}
	return s.Repo.SetRole(ctx, strings.TrimSpace(username), tokens.RoleAdmin)
}
