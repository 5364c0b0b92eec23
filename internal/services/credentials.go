package services

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/repositories"
	"github.com/desertthunder/favs/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore implements [Credentials] on top of a [repositories.UserRepository].
type CredentialStore struct {
	users *repositories.UserRepository
	cost  int

	// dummy is compared against when the username is unknown so both failure paths do the same work.
	dummyOnce sync.Once
	dummy     []byte
}

var _ Credentials = (*CredentialStore)(nil)

// NewCredentialStore creates a store hashing with [bcrypt.DefaultCost].
func NewCredentialStore(users *repositories.UserRepository) *CredentialStore {
	return &CredentialStore{users: users, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use [bcrypt.MinCost]. Call it before the store is used.
func (s *CredentialStore) WithCost(cost int) *CredentialStore {
	s.cost = cost
	return s
}

func (s *CredentialStore) Register(username, password string) (*models.User, error) {
	exists, err := s.users.Exists(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateUsername, username)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordKey(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(0, username, string(hash))
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *CredentialStore) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if errors.Is(err, shared.ErrUserNotFound) {
		bcrypt.CompareHashAndPassword(s.dummyHash(), passwordKey(password))
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), passwordKey(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// dummyHash is generated lazily at the store's cost so an unknown user costs as much as a wrong password.
func (s *CredentialStore) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword(passwordKey("favs-unknown-user"), s.cost)
	})
	return s.dummy
}

// passwordKey digests a password before bcrypt, which rejects input over 72 bytes.
func passwordKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	key := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(key, sum[:])
	return key
}
