package store

import (
	"errors"
	"strings"

	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// Roles. Role gating happens in the api middleware; the store only records
// the value.
const (
	RoleAdmin     = "admin"
	RoleNGO       = "ngo"
	RoleVet       = "vet"
	RoleVolunteer = "volunteer"
	RoleUser      = "user"
)

// Default admin account seeded on startup so a fresh deployment is never
// locked out.
const (
	defaultAdminEmail = "admin@safepaws.ai"
	defaultAdminPass  = "admin123"
)

// User is one account record. Passwords are stored as-is — credential
// hardening is explicitly out of scope for this system.
type User struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
	AuthToken string `json:"auth_token,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

var (
	ErrEmailTaken         = errors.New("store: email already registered")
	ErrInvalidCredentials = errors.New("store: invalid credentials")
)

// ─── METHODS ──────────────────────────────────────────────────────────────────

// ListUsers returns every account.
func (s *Store) ListUsers() []User {
	return docstore.Read(s.b, colUsers, []User{})
}

// UsersByRole returns the active accounts with the given role.
func (s *Store) UsersByRole(role string) []User {
	out := []User{}
	for _, u := range s.ListUsers() {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	return out
}

// UserByEmail looks up a single account.
func (s *Store) UserByEmail(email string) (User, error) {
	for _, u := range s.ListUsers() {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// UserByToken resolves the account holding an auth token. Used by the
// requireUser middleware on every authenticated request.
func (s *Store) UserByToken(token string) (User, error) {
	if token == "" {
		return User{}, ErrNotFound
	}
	for _, u := range s.ListUsers() {
		if u.AuthToken == token && u.Active {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// EnsureAdmin seeds the default admin account if no account with the admin
// email exists yet. Called once at startup; calling it again is a no-op.
func (s *Store) EnsureAdmin() error {
	users := s.ListUsers()
	for _, u := range users {
		if strings.EqualFold(u.Email, defaultAdminEmail) {
			return nil
		}
	}
	users = append(users, User{
		Email:     defaultAdminEmail,
		Name:      "Admin",
		Password:  defaultAdminPass,
		Role:      RoleAdmin,
		Active:    true,
		CreatedAt: s.timestamp(),
	})
	return docstore.Write(s.b, colUsers, users)
}

// Register creates a new account. Emails are unique case-insensitively.
func (s *Store) Register(email, name, password, role, phone string) (User, error) {
	if role == "" {
		role = RoleUser
	}
	users := s.ListUsers()
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return User{}, ErrEmailTaken
		}
	}
	u := User{
		Email:     email,
		Name:      name,
		Password:  password,
		Role:      role,
		Phone:     phone,
		Active:    true,
		CreatedAt: s.timestamp(),
	}
	users = append(users, u)
	if err := docstore.Write(s.b, colUsers, users); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login checks credentials and persists a fresh auth token on the account.
// The previous token (if any) is invalidated by the overwrite.
func (s *Store) Login(email, password, token string) (User, error) {
	users := s.ListUsers()
	for i := range users {
		if strings.EqualFold(users[i].Email, email) && users[i].Password == password && users[i].Active {
			users[i].AuthToken = token
			if err := docstore.Write(s.b, colUsers, users); err != nil {
				return User{}, err
			}
			return users[i], nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Deactivate flips an account inactive (admin panel operation). Inactive
// accounts fail login and token lookup but their records remain.
func (s *Store) Deactivate(email string) error {
	users := s.ListUsers()
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			users[i].Active = false
			users[i].AuthToken = ""
			return docstore.Write(s.b, colUsers, users)
		}
	}
	return ErrNotFound
}
