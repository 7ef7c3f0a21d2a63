package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("usr-1", "Alice@Example.com")
	user.Role = domain.RoleAdmin
	user.DisplayName = "Alice"

	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.ID != user.ID {
		t.Errorf("ID: got %q, want %q", got.ID, user.ID)
	}
	if got.Email != user.Email {
		t.Errorf("Email: got %q, want %q", got.Email, user.Email)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if got.Role != domain.RoleAdmin {
		t.Errorf("Role: got %q, want %q", got.Role, domain.RoleAdmin)
	}
	if got.DisplayName != "Alice" {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, "Alice")
	}
	if !got.IsActive() {
		t.Error("expected user to be active")
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "usr-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("usr-1", "Alice@Example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	for _, email := range []string{"alice@example.com", "ALICE@EXAMPLE.COM", " Alice@Example.com "} {
		got, err := s.GetUserByEmail(ctx, email)
		if err != nil {
			t.Fatalf("GetUserByEmail(%q): %v", email, err)
		}
		if got.ID != "usr-1" {
			t.Errorf("GetUserByEmail(%q): got %q", email, got.ID)
		}
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("usr-1", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err := s.CreateUser(ctx, makeTestUser("usr-2", "ALICE@example.com"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUserLastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("usr-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := s.UpdateUserLastLogin(ctx, "usr-1", at); err != nil {
		t.Fatalf("UpdateUserLastLogin: %v", err)
	}

	got, err := s.GetUser(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !got.LastLoginAt.Equal(at) {
		t.Errorf("LastLoginAt: got %v, want %v", got.LastLoginAt, at)
	}

	if err := s.UpdateUserLastLogin(ctx, "usr-missing", at); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountAdmins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 admins, got %d", count)
	}

	admin := makeTestUser("usr-1", "admin@example.com")
	admin.Role = domain.RoleAdmin
	if err := s.CreateUser(ctx, admin); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("usr-2", "p@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	count, err = s.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 admin, got %d", count)
	}
}

func TestListUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"Cara", "Abe", "Bea"} {
		u := makeTestUser("usr-"+name, name+"@example.com")
		u.DisplayName = name
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser %d: %v", i, err)
		}
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].DisplayName != "Abe" || users[2].DisplayName != "Cara" {
		t.Errorf("unexpected order: %q, %q, %q",
			users[0].DisplayName, users[1].DisplayName, users[2].DisplayName)
	}
}
