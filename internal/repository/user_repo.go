package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"devauth/internal/domain"
)

var (
	// ErrNotFound indica que ningún usuario tiene ese email normalizado.
	ErrNotFound = errors.New("user not found")
	// ErrMalformedRecord indica un documento que no cumple el esquema de User.
	ErrMalformedRecord = errors.New("malformed user record")
)

// UserRepository define el contrato del directorio de usuarios.
//
// FindByEmailLower devuelve como máximo un usuario. Si existen duplicados
// (la unicidad no está garantizada por el store) devuelve el más antiguo,
// pero los llamadores no deben depender de cuál se elige.
// Insert no verifica unicidad; el store asigna ID y CreatedAt.
type UserRepository interface {
	FindByEmailLower(ctx context.Context, emailLower string) (domain.User, error)
	Insert(ctx context.Context, user domain.NewUser) (domain.User, error)
}

// pgxQuerier es el subconjunto de pgxpool.Pool que usa el repositorio.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgUserRepository implementa UserRepository usando pgx.
type PgUserRepository struct {
	pool pgxQuerier
}

func NewPgUserRepository(pool pgxQuerier) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const findByEmailLowerQuery = `
		SELECT id, first_name, last_name, email, email_lower, password_hash, created_at
		FROM users
		WHERE email_lower = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

const insertUserQuery = `
		INSERT INTO users (first_name, last_name, email, email_lower, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

func (r *PgUserRepository) FindByEmailLower(ctx context.Context, emailLower string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, findByEmailLowerQuery, emailLower).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.EmailLower,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	if err := validateRecord(u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) Insert(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	if err := validateNewUser(nu); err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Email:        nu.Email,
		EmailLower:   nu.EmailLower,
		PasswordHash: nu.PasswordHash,
	}
	err := r.pool.QueryRow(ctx, insertUserQuery,
		nu.FirstName,
		nu.LastName,
		nu.Email,
		nu.EmailLower,
		nu.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func validateNewUser(nu domain.NewUser) error {
	if nu.PasswordHash == "" {
		return fmt.Errorf("%w: empty password hash", ErrMalformedRecord)
	}
	if nu.EmailLower != strings.ToLower(strings.TrimSpace(nu.Email)) {
		return fmt.Errorf("%w: emailLower does not match email", ErrMalformedRecord)
	}
	return nil
}

func validateRecord(u domain.User) error {
	if u.ID == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedRecord)
	}
	return validateNewUser(domain.NewUser{
		Email:        u.Email,
		EmailLower:   u.EmailLower,
		PasswordHash: u.PasswordHash,
	})
}
