package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("duplicate email")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, len(result), nil
}

func TestCreateUser(t *testing.T) {
	svc := NewService(newMockUserRepo())

	u := &User{Email: "  Anna@Example.COM ", Role: RoleVet, DisplayName: "Dr Anna"}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "anna@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestCreateUserDefaults(t *testing.T) {
	svc := NewService(newMockUserRepo())

	u := &User{Email: "bob@example.com"}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role != RoleOwner {
		t.Errorf("role = %q, want %q", u.Role, RoleOwner)
	}
	if u.DisplayName != "bob@example.com" {
		t.Errorf("display name = %q, want email fallback", u.DisplayName)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMockUserRepo())

	tests := []struct {
		name string
		user User
	}{
		{"empty email", User{Email: ""}},
		{"no at sign", User{Email: "not-an-email"}},
		{"bad role", User{Email: "ok@example.com", Role: "SUPERUSER"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			if err := svc.CreateUser(context.Background(), &u); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetUserByEmailNormalizes(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	u := &User{Email: "carol@example.com", Role: RoleOwner}
	if err := svc.CreateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetUserByEmail(context.Background(), " Carol@Example.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("got wrong user: %v", got.ID)
	}
}
