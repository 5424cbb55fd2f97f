package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"devauth/internal/domain"
)

type mockRedisDocClient struct {
	strings map[string]string
	zsets   map[string][]redis.Z

	setErr    error
	zaddErr   error
	zrangeErr error
	getErr    error

	setCalls  int
	zaddCalls int
}

func newMockRedisDocClient() *mockRedisDocClient {
	return &mockRedisDocClient{
		strings: make(map[string]string),
		zsets:   make(map[string][]redis.Z),
	}
}

func (m *mockRedisDocClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	val, ok := m.strings[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *mockRedisDocClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.setCalls++
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		m.strings[key] = string(v)
	case string:
		m.strings[key] = v
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisDocClient) ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	m.zaddCalls++
	cmd := redis.NewIntCmd(ctx)
	if m.zaddErr != nil {
		cmd.SetErr(m.zaddErr)
		return cmd
	}
	set := m.zsets[key]
	for _, z := range members {
		inserted := false
		for i := range set {
			if z.Score < set[i].Score {
				set = append(set[:i], append([]redis.Z{z}, set[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			set = append(set, z)
		}
	}
	m.zsets[key] = set
	cmd.SetVal(int64(len(members)))
	return cmd
}

func (m *mockRedisDocClient) ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx)
	if m.zrangeErr != nil {
		cmd.SetErr(m.zrangeErr)
		return cmd
	}
	set := m.zsets[key]
	var out []string
	for i := start; i <= stop && int(i) < len(set); i++ {
		out = append(out, set[i].Member.(string))
	}
	cmd.SetVal(out)
	return cmd
}

func newTestRedisRepo(client *mockRedisDocClient) *RedisUserRepository {
	repo := newRedisUserRepository(client)
	seq := 0
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.newID = func() string {
		seq++
		return "id-" + string(rune('0'+seq))
	}
	repo.now = func() time.Time {
		return base.Add(time.Duration(seq) * time.Second)
	}
	return repo
}

func TestRedisUserRepository_InsertAndFind(t *testing.T) {
	client := newMockRedisDocClient()
	repo := newTestRedisRepo(client)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.NewUser{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "Ada@X.com",
		EmailLower:   "ada@x.com",
		PasswordHash: "$2a$10$hash",
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if created.ID != "id-1" || created.CreatedAt.IsZero() {
		t.Fatalf("expected store-assigned id and createdAt, got %+v", created)
	}
	if _, ok := client.strings["users:doc:id-1"]; !ok {
		t.Fatalf("expected document under users:doc:id-1")
	}
	if len(client.zsets["users:email:ada@x.com"]) != 1 {
		t.Fatalf("expected email index entry")
	}

	found, err := repo.FindByEmailLower(ctx, "ada@x.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != created.ID || found.Email != "Ada@X.com" || found.LastName != "Lovelace" {
		t.Fatalf("expected %+v, got %+v", created, found)
	}
	if !found.CreatedAt.Equal(created.CreatedAt) || found.PasswordHash != "$2a$10$hash" {
		t.Fatalf("expected createdAt and hash to round-trip, got %+v", found)
	}
}

func TestRedisUserRepository_FindNotFound(t *testing.T) {
	repo := newTestRedisRepo(newMockRedisDocClient())

	_, err := repo.FindByEmailLower(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisUserRepository_DuplicatesReturnOldest(t *testing.T) {
	client := newMockRedisDocClient()
	repo := newTestRedisRepo(client)
	ctx := context.Background()

	for _, first := range []string{"First", "Second"} {
		_, err := repo.Insert(ctx, domain.NewUser{
			FirstName:    first,
			Email:        "dup@x.com",
			EmailLower:   "dup@x.com",
			PasswordHash: "h",
		})
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	found, err := repo.FindByEmailLower(ctx, "dup@x.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.FirstName != "First" {
		t.Fatalf("expected oldest record, got %s", found.FirstName)
	}
}

func TestRedisUserRepository_MalformedDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("dangling index", func(t *testing.T) {
		client := newMockRedisDocClient()
		client.zsets["users:email:a@x.com"] = []redis.Z{{Score: 1, Member: "ghost"}}
		repo := newTestRedisRepo(client)
		if _, err := repo.FindByEmailLower(ctx, "a@x.com"); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		client := newMockRedisDocClient()
		client.zsets["users:email:a@x.com"] = []redis.Z{{Score: 1, Member: "u1"}}
		client.strings["users:doc:u1"] = "{not json"
		repo := newTestRedisRepo(client)
		if _, err := repo.FindByEmailLower(ctx, "a@x.com"); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("missing password hash", func(t *testing.T) {
		client := newMockRedisDocClient()
		client.zsets["users:email:a@x.com"] = []redis.Z{{Score: 1, Member: "u1"}}
		client.strings["users:doc:u1"] = `{"id":"u1","email":"a@x.com","emailLower":"a@x.com"}`
		repo := newTestRedisRepo(client)
		if _, err := repo.FindByEmailLower(ctx, "a@x.com"); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
	})
}

func TestRedisUserRepository_ErrorPaths(t *testing.T) {
	ctx := context.Background()
	nu := domain.NewUser{Email: "a@x.com", EmailLower: "a@x.com", PasswordHash: "h"}

	client := newMockRedisDocClient()
	client.setErr = errors.New("set failed")
	repo := newTestRedisRepo(client)
	if _, err := repo.Insert(ctx, nu); err == nil {
		t.Fatalf("expected set error")
	}
	if client.zaddCalls != 0 {
		t.Fatalf("index must not be written when document write fails")
	}

	client = newMockRedisDocClient()
	client.zaddErr = errors.New("zadd failed")
	repo = newTestRedisRepo(client)
	if _, err := repo.Insert(ctx, nu); err == nil {
		t.Fatalf("expected zadd error")
	}

	client = newMockRedisDocClient()
	client.zrangeErr = errors.New("redis down")
	repo = newTestRedisRepo(client)
	if _, err := repo.FindByEmailLower(ctx, "a@x.com"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}

	client = newMockRedisDocClient()
	repo = newTestRedisRepo(client)
	if _, err := repo.Insert(ctx, domain.NewUser{Email: "a@x.com", EmailLower: "a@x.com"}); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if client.setCalls != 0 {
		t.Fatalf("malformed input must not reach redis")
	}
}
