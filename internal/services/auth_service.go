// auth_service.go
//
// A serialized fiction publishing service on the jam-build data service stack
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of novelsdb.
// novelsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// novelsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with novelsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/localnerve/novelsdb/internal/models"
	"github.com/localnerve/novelsdb/internal/store"
	"github.com/localnerve/novelsdb/internal/types"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgNoToken            = "Access denied. No token provided."
	msgInvalidToken       = "Invalid token"
)

// AuthResult is returned by register and login
type AuthResult struct {
	User  models.UserSummary `json:"user"`
	Token string             `json:"token"`
}

// AuthService verifies credentials and issues and validates bearer tokens
type AuthService struct {
	Users  store.UserStore
	Tokens TokenSigner
	Hasher PasswordHasher

	decoyOnce sync.Once
	decoy     string
}

// NewAuthService creates an AuthService
func NewAuthService(users store.UserStore, tokens TokenSigner, hasher PasswordHasher) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Hasher: hasher}
}

// Register creates a user and returns it with a fresh token
func (s *AuthService) Register(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if err := Validate(&creds); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(creds.Password)
	if err != nil {
		return nil, types.NewInternalError(err)
	}

	user := &models.User{Username: creds.Username, PasswordHash: hash}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, types.NewConflictError("Username already exists")
		}
		return nil, types.NewInternalError(err)
	}

	log.Printf("Registered user %d (%s)", user.ID, user.Username)
	return s.issue(user)
}

// Login checks credentials and returns the user with a fresh token. Unknown
// usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if err := Validate(&loginCredentials{Username: creds.Username, Password: creds.Password}); err != nil {
		return nil, err
	}

	user, err := s.Users.FindUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same hashing work as a real comparison
			s.Hasher.Compare(s.decoyHash(), creds.Password)
			return nil, types.NewUnauthenticatedError(msgInvalidCredentials)
		}
		return nil, types.NewInternalError(err)
	}

	if !s.Hasher.Compare(user.PasswordHash, creds.Password) {
		return nil, types.NewUnauthenticatedError(msgInvalidCredentials)
	}

	return s.issue(user)
}

// Authenticate validates an Authorization header value and returns the user id
func (s *AuthService) Authenticate(header string) (uint64, error) {
	token := bearerToken(header)
	if token == "" {
		return 0, types.NewUnauthenticatedError(msgNoToken)
	}

	userID, err := s.Tokens.Verify(token)
	if err != nil {
		return 0, types.NewUnauthenticatedError(msgInvalidToken)
	}
	return userID, nil
}

// CurrentUser returns the account a verified token belongs to
func (s *AuthService) CurrentUser(ctx context.Context, userID uint64) (*models.UserSummary, error) {
	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewUnauthenticatedError(msgInvalidToken)
		}
		return nil, types.NewInternalError(err)
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, types.NewInternalError(err)
	}
	return &AuthResult{User: user.Summary(), Token: token}, nil
}

func (s *AuthService) decoyHash() string {
	s.decoyOnce.Do(func() {
		hash, err := s.Hasher.Hash("decoy-password-for-unknown-users")
		if err != nil {
			log.Printf("Failed to build decoy password hash: %v", err)
		}
		s.decoy = hash
	})
	return s.decoy
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
