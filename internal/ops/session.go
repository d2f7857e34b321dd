package ops

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jacksmith/storefront/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password the login form accepts.
const MinPasswordLength = 8

// Login form error texts.
const (
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Invalid email format"
	MsgPasswordMissing = "Password is required"
	MsgPasswordLength  = "Invalid password length"
)

var emailRegex = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// ErrBadCredentials is returned when configured credentials do not match.
var ErrBadCredentials = errors.New("email or password is incorrect")

// LoginError carries the per-field messages of a rejected login form.
// An empty message means the field is fine.
type LoginError struct {
	Email    string
	Password string
}

func (e *LoginError) Error() string {
	var parts []string
	if e.Email != "" {
		parts = append(parts, "email: "+e.Email)
	}
	if e.Password != "" {
		parts = append(parts, "password: "+e.Password)
	}
	return "invalid login: " + strings.Join(parts, "; ")
}

// ValidateLogin checks the login form fields. Returns nil when both are
// acceptable.
func ValidateLogin(email, password string) *LoginError {
	var le LoginError
	switch {
	case strings.TrimSpace(email) == "":
		le.Email = MsgEmailRequired
	case !emailRegex.MatchString(email):
		le.Email = MsgEmailInvalid
	}
	switch {
	case strings.TrimSpace(password) == "":
		le.Password = MsgPasswordMissing
	case len(password) < MinPasswordLength:
		le.Password = MsgPasswordLength
	}
	if le.Email == "" && le.Password == "" {
		return nil
	}
	return &le
}

// HashPassword returns a bcrypt hash suitable for password_hash in
// .storefront.yaml.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// Session manages the persisted login flag.
type Session struct {
	store  *storage.Storage
	logger *slog.Logger
}

// NewSession returns a Session over s.
func NewSession(s *storage.Storage) *Session {
	return &Session{store: s, logger: s.Logger()}
}

// LoggedIn reports whether a user is logged in.
func (s *Session) LoggedIn(ctx context.Context) (bool, error) {
	return s.store.LoggedIn(ctx)
}

// Login validates the form and, when credentials are configured, checks
// them. On success the login flag is set.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if le := ValidateLogin(email, password); le != nil {
		return le
	}

	cfg, err := s.store.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.HasCredentials() {
		if !strings.EqualFold(strings.TrimSpace(email), cfg.Email) ||
			bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(password)) != nil {
			s.logger.Info("login rejected", "email", email)
			return ErrBadCredentials
		}
	}

	if err := s.store.SetLoggedIn(ctx, true); err != nil {
		return err
	}
	s.logger.Debug("logged in", "email", email)
	return nil
}

// Logout clears the login flag.
func (s *Session) Logout(ctx context.Context) error {
	return s.store.SetLoggedIn(ctx, false)
}
