// Package session holds the authenticated session of the client: the bearer
// token and the cached user profile. State is read once by Init and kept in
// memory; Save and Clear write through to the metadata table in a single
// transaction.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/client/repositories/metadata"
	"github.com/slidesmith/slidesmith/internal/common"
	"github.com/slidesmith/slidesmith/internal/dbx"
	"github.com/slidesmith/slidesmith/internal/logging"
)

// Snapshot is a copy of the session at one point in time.
type Snapshot struct {
	Token string
	User  *models.User
}

// Authenticated reports whether the snapshot carries a token.
func (s Snapshot) Authenticated() bool { return s.Token != "" }

// Source is what components that only read the session depend on.
type Source interface {
	Snapshot() Snapshot
}

type Store struct {
	db      *sql.DB
	newRepo func(dbx.DBTX) metadata.Repository
	log     logging.Logger
	now     func() time.Time

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{
		db:      db,
		newRepo: func(tx dbx.DBTX) metadata.Repository { return metadata.NewSQLiteRepository(tx) },
		log:     log.With("component", "session"),
		now:     time.Now,
	}
}

// Init loads the persisted session. Values stored under legacy keys are
// moved to the canonical keys and the legacy keys removed. A token whose
// JWT exp claim has passed is cleared together with the user.
func (s *Store) Init(ctx context.Context) error {
	var (
		token string
		user  *models.User
	)

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)

		var err error
		token, err = s.migrateToken(ctx, repo)
		if err != nil {
			return err
		}
		user, err = s.migrateUser(ctx, repo)
		if err != nil {
			return err
		}

		if token != "" && s.expired(token) {
			s.log.Info(ctx, "stored token expired, clearing session")
			token, user = "", nil
			return repo.Delete(ctx, common.SessionTokenKey, common.SessionUserKey)
		}
		if token == "" && user != nil {
			user = nil
			return repo.Delete(ctx, common.SessionUserKey)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()
	return nil
}

func (s *Store) migrateToken(ctx context.Context, repo metadata.Repository) (string, error) {
	token, err := readString(ctx, repo, common.SessionTokenKey)
	if err != nil {
		return "", err
	}

	if token == "" {
		for _, key := range common.LegacyTokenKeys {
			v, err := readString(ctx, repo, key)
			if err != nil {
				return "", err
			}
			if v != "" {
				token = v
				s.log.Info(ctx, "migrating legacy token key", "key", key)
				if err := repo.Set(ctx, common.SessionTokenKey, []byte(v)); err != nil {
					return "", err
				}
				break
			}
		}
	}

	if err := repo.Delete(ctx, common.LegacyTokenKeys...); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) migrateUser(ctx context.Context, repo metadata.Repository) (*models.User, error) {
	raw, err := readBytes(ctx, repo, common.SessionUserKey)
	if err != nil {
		return nil, err
	}

	canonical := raw != nil
	if !canonical {
		for _, key := range common.LegacyUserKeys {
			if raw, err = readBytes(ctx, repo, key); err != nil {
				return nil, err
			}
			if raw != nil {
				break
			}
		}
	}
	if err := repo.Delete(ctx, common.LegacyUserKeys...); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn(ctx, "dropping unreadable cached user", "error", err)
		return nil, repo.Delete(ctx, common.SessionUserKey)
	}
	if !canonical {
		if err := repo.Set(ctx, common.SessionUserKey, raw); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

// expired reports whether token is a JWT with an exp claim in the past.
// Opaque tokens never expire client-side.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

func readBytes(ctx context.Context, repo metadata.Repository, key string) ([]byte, error) {
	v, err := repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return v, err
}

func readString(ctx context.Context, repo metadata.Repository, key string) (string, error) {
	v, err := readBytes(ctx, repo, key)
	return string(v), err
}

// Save persists token and user atomically and updates the in-memory copy.
func (s *Store) Save(ctx context.Context, token string, user models.User) error {
	if token == "" {
		return errors.New("save session: empty token")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		if err := repo.Set(ctx, common.SessionTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.SessionUserKey, raw)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.token, s.user = token, &user
	s.mu.Unlock()
	return nil
}

// Clear removes every session key and every legacy key in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		entries, err := repo.List(ctx, common.SessionKeyPrefix)
		if err != nil {
			return err
		}
		keys := []string{common.SessionTokenKey, common.SessionUserKey}
		for _, e := range entries {
			keys = append(keys, e.Key)
		}
		keys = append(keys, common.LegacyTokenKeys...)
		keys = append(keys, common.LegacyUserKeys...)
		return repo.Delete(ctx, keys...)
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile; ok is false when nobody is logged in.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// RequireToken returns the token or common.ErrNoSession.
func (s *Store) RequireToken() (string, error) {
	if t := s.Token(); t != "" {
		return t, nil
	}
	return "", common.ErrNoSession
}
