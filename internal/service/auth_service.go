package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"devauth/internal/domain"
	"devauth/internal/repository"
	"devauth/internal/session"
)

const (
	minPasswordLength = 6
	minEmailLength    = 3
	maxEmailLength    = 255

	// DefaultRedirectAfter es la pausa sugerida antes de ir a login tras registrarse.
	DefaultRedirectAfter = 900 * time.Millisecond
)

// emailPattern excluye cualquier espacio Unicode (\p{Z}, \v, BOM), no solo el ASCII de \s.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// Errores de los flujos. UserMessage los traduce al texto que ve el usuario.
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrAccountExists      = errors.New("account already exists")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLoginFailed        = errors.New("login failed")
)

var userMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidEmail, "Please enter a valid email."},
	{ErrPasswordTooShort, "Password must be at least 6 characters."},
	{ErrPasswordMismatch, "Passwords do not match."},
	{ErrAccountExists, "An account with this email already exists."},
	{ErrInvalidCredentials, "Invalid email or password."},
	{ErrRegistrationFailed, "Registration failed."},
	{ErrLoginFailed, "Login failed."},
}

// UserMessage devuelve el mensaje legible para un error de flujo.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

// IsValidationError indica si el error se detectó antes de tocar el store.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrPasswordMismatch)
}

// dummyVerifier lo implementan los hashers que pueden igualar el costo
// del camino "email inexistente".
type dummyVerifier interface {
	VerifyDummy(plaintext string)
}

// AuthService coordina registro, login y logout.
type AuthService struct {
	logger        *zap.Logger
	users         repository.UserRepository
	hasher        PasswordHasher
	redirectAfter time.Duration
	now           func() time.Time
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, hasher PasswordHasher, redirectAfter time.Duration) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultHashCost)
	}
	if redirectAfter < 0 {
		redirectAfter = DefaultRedirectAfter
	}
	return &AuthService{
		logger:        logger,
		users:         users,
		hasher:        hasher,
		redirectAfter: redirectAfter,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegisterResult lleva el usuario creado y la pausa sugerida antes de
// redirigir a login. La pausa es una indicación para la UI.
type RegisterResult struct {
	User          domain.User
	RedirectAfter time.Duration
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	emailLower := normalizeEmail(input.Email)
	if !isValidEmail(emailLower) {
		return RegisterResult{}, ErrInvalidEmail
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return RegisterResult{}, ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return RegisterResult{}, ErrPasswordMismatch
	}
	if s.users == nil {
		return RegisterResult{}, fmt.Errorf("%w: user directory not configured", ErrRegistrationFailed)
	}

	firstName, lastName := splitFullName(input.FullName)

	// Chequeo previo sin transacción: dos registros simultáneos pueden pasar
	// ambos antes de insertar.
	_, err := s.users.FindByEmailLower(ctx, emailLower)
	switch {
	case err == nil:
		s.logger.Info("registration rejected: email taken", zap.String("email_lower", emailLower))
		return RegisterResult{}, ErrAccountExists
	case !errors.Is(err, repository.ErrNotFound):
		s.logger.Error("registration lookup failed", zap.Error(err))
		return RegisterResult{}, fmt.Errorf("%w: lookup: %w", ErrRegistrationFailed, err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("password hash failed", zap.Error(err))
		return RegisterResult{}, fmt.Errorf("%w: hash: %w", ErrRegistrationFailed, err)
	}

	user, err := s.users.Insert(ctx, domain.NewUser{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.TrimSpace(input.Email),
		EmailLower:   emailLower,
		PasswordHash: passwordHash,
	})
	if err != nil {
		s.logger.Error("registration insert failed", zap.Error(err))
		return RegisterResult{}, fmt.Errorf("%w: insert: %w", ErrRegistrationFailed, err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return RegisterResult{User: user, RedirectAfter: s.redirectAfter}, nil
}

type LoginInput struct {
	Email    string
	Password string
}

// Login verifica credenciales y guarda la sesión en store. Email inexistente
// y contraseña incorrecta devuelven el mismo ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput, store session.Store) (domain.Session, error) {
	if s.users == nil || store == nil {
		return domain.Session{}, fmt.Errorf("%w: service not configured", ErrLoginFailed)
	}

	emailLower := normalizeEmail(input.Email)
	user, err := s.users.FindByEmailLower(ctx, emailLower)
	if errors.Is(err, repository.ErrNotFound) {
		if dv, ok := s.hasher.(dummyVerifier); ok {
			dv.VerifyDummy(input.Password)
		}
		return domain.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("login lookup failed", zap.Error(err))
		return domain.Session{}, fmt.Errorf("%w: lookup: %w", ErrLoginFailed, err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return domain.Session{}, ErrInvalidCredentials
	}

	sess := domain.Session{
		UserID:     user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		SignedInAt: s.now(),
	}
	if err := store.Save(sess); err != nil {
		s.logger.Error("session save failed", zap.Error(err))
		return domain.Session{}, fmt.Errorf("%w: save session: %w", ErrLoginFailed, err)
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID))
	return sess, nil
}

// Logout borra la sesión del store.
func (s *AuthService) Logout(store session.Store) error {
	if store == nil {
		return nil
	}
	return store.Clear()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(emailLower string) bool {
	n := utf8.RuneCountInString(emailLower)
	if n < minEmailLength || n > maxEmailLength {
		return false
	}
	return emailPattern.MatchString(emailLower)
}

// splitFullName separa por espacios: el primer token es el nombre y el
// resto, unido por un espacio, el apellido.
func splitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
