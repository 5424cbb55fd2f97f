package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"devauth/internal/domain"
)

// redisDocClient es el subconjunto de *redis.Client que usa el repositorio.
type redisDocClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisUserRepository guarda cada usuario como documento JSON y mantiene un
// índice por email normalizado ordenado por fecha de creación.
type RedisUserRepository struct {
	client redisDocClient
	prefix string
	now    func() time.Time
	newID  func() string
}

func NewRedisUserRepository(client *redis.Client) *RedisUserRepository {
	return newRedisUserRepository(client)
}

func newRedisUserRepository(client redisDocClient) *RedisUserRepository {
	return &RedisUserRepository{
		client: client,
		prefix: "users:",
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

type userDocument struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	EmailLower   string    `json:"emailLower"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r *RedisUserRepository) docKey(id string) string {
	return r.prefix + "doc:" + id
}

func (r *RedisUserRepository) emailKey(emailLower string) string {
	return r.prefix + "email:" + emailLower
}

func (r *RedisUserRepository) FindByEmailLower(ctx context.Context, emailLower string) (domain.User, error) {
	ids, err := r.client.ZRange(ctx, r.emailKey(emailLower), 0, 0).Result()
	if err != nil {
		return domain.User{}, err
	}
	if len(ids) == 0 {
		return domain.User{}, ErrNotFound
	}

	raw, err := r.client.Get(ctx, r.docKey(ids[0])).Result()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, fmt.Errorf("%w: index points to missing document %s", ErrMalformedRecord, ids[0])
	}
	if err != nil {
		return domain.User{}, err
	}

	var doc userDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	u := domain.User(doc)
	if err := validateRecord(u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *RedisUserRepository) Insert(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	if err := validateNewUser(nu); err != nil {
		return domain.User{}, err
	}
	doc := userDocument{
		ID:           r.newID(),
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Email:        nu.Email,
		EmailLower:   nu.EmailLower,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    r.now(),
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return domain.User{}, err
	}

	// El documento se escribe antes que el índice para que el índice nunca
	// apunte a un documento inexistente.
	if err := r.client.Set(ctx, r.docKey(doc.ID), payload, 0).Err(); err != nil {
		return domain.User{}, err
	}
	member := redis.Z{Score: float64(doc.CreatedAt.UnixNano()), Member: doc.ID}
	if err := r.client.ZAdd(ctx, r.emailKey(doc.EmailLower), member).Err(); err != nil {
		return domain.User{}, err
	}
	return domain.User(doc), nil
}
