package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/localnerve/novelsdb/internal/services"
)

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, services.Credentials{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registered.User.ID == 0 || registered.User.Username != "alice" {
		t.Errorf("Unexpected user %+v", registered.User)
	}
	if registered.Token == "" {
		t.Error("Expected a token on register")
	}

	loggedIn, err := f.auth.Login(ctx, services.Credentials{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Errorf("Expected user %d, got %d", registered.User.ID, loggedIn.User.ID)
	}

	userID, err := f.auth.Authenticate("Bearer " + loggedIn.Token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if userID != registered.User.ID {
		t.Errorf("Expected token for user %d, got %d", registered.User.ID, userID)
	}
}

func TestRegisterStoresHashOnly(t *testing.T) {
	f := setup(t)

	if _, err := f.auth.Register(context.Background(), services.Credentials{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var hash string
	f.db.Raw("SELECT password_hash FROM users WHERE username = ?", "alice").Scan(&hash)
	if hash == "" || hash == "secret123" {
		t.Errorf("Expected a bcrypt hash, got %q", hash)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, services.Credentials{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := f.auth.Register(ctx, services.Credentials{Username: "alice", Password: "other456"})
	assertCustomError(t, err, http.StatusConflict, "Username already exists")
}

func TestRegisterValidation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name    string
		creds   services.Credentials
		message string
	}{
		{"short username", services.Credentials{Username: "al", Password: "secret123"}, `"username" length must be at least 3 characters long`},
		{"long username", services.Credentials{Username: "abcdefghijabcdefghijabcdefghijx", Password: "secret123"}, `"username" length must be less than or equal to 30 characters long`},
		{"symbols in username", services.Credentials{Username: "al-ice", Password: "secret123"}, `"username" must only contain alpha-numeric characters`},
		{"missing password", services.Credentials{Username: "alice"}, `"password" is required`},
		{"symbols in password", services.Credentials{Username: "alice", Password: "secret!23"}, ""},
		{"short password", services.Credentials{Username: "alice", Password: "ab"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(context.Background(), tt.creds)
			assertCustomError(t, err, http.StatusBadRequest, tt.message)
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, services.Credentials{Username: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, wrongPassword := f.auth.Login(ctx, services.Credentials{Username: "alice", Password: "wrong123"})
	assertCustomError(t, wrongPassword, http.StatusUnauthorized, "Invalid credentials")

	_, unknownUser := f.auth.Login(ctx, services.Credentials{Username: "nobody", Password: "secret123"})
	assertCustomError(t, unknownUser, http.StatusUnauthorized, "Invalid credentials")
}

func TestLoginRequiresBothFields(t *testing.T) {
	f := setup(t)

	_, err := f.auth.Login(context.Background(), services.Credentials{Username: "alice"})
	assertCustomError(t, err, http.StatusBadRequest, `"password" is required`)
}

func TestAuthenticate(t *testing.T) {
	f := setup(t)

	_, err := f.auth.Authenticate("")
	assertCustomError(t, err, http.StatusUnauthorized, "Access denied. No token provided.")

	_, err = f.auth.Authenticate("Basic dXNlcjpwYXNz")
	assertCustomError(t, err, http.StatusUnauthorized, "Access denied. No token provided.")

	_, err = f.auth.Authenticate("Bearer garbage")
	assertCustomError(t, err, http.StatusUnauthorized, "Invalid token")
}

func TestCurrentUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, services.Credentials{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := f.auth.CurrentUser(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected alice, got %s", user.Username)
	}

	_, err = f.auth.CurrentUser(ctx, registered.User.ID+100)
	assertCustomError(t, err, http.StatusUnauthorized, "Invalid token")
}
