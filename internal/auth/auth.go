// Package auth implements the user credential store consulted by the shell
// for login, ownership tagging and privileged-command gating.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
)

var (
	// ErrUserExists is an error that occurs when a username is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is an error that occurs when a username is unknown.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserProtected is an error that occurs when the primary administrator
	// or the currently logged-in user is attempted to be deleted.
	ErrUserProtected = errors.New("user cannot be deleted")

	// ErrInvalidName is an error that occurs when an empty username or
	// password is given.
	ErrInvalidName = errors.New("invalid username or password")
)

// Role is the privilege level of a user.
type Role uint8

const (
	// RoleStandard is the default role for created users.
	RoleStandard Role = iota

	// RoleAdmin gates user management commands.
	RoleAdmin
)

const (
	// GuestName is the username reported while nobody is logged in.
	GuestName = "Guest"

	// GuestUID is the uid reported while nobody is logged in. It matches the
	// first uid handed to a created standard user.
	GuestUID uint32 = 1000
)

// User is one stored account. Credentials are kept only as blake3 digests.
type User struct {
	Username string
	Role     Role
	UID      uint32
	digest   [32]byte
}

// Manager is the single shared credential store. Every operation takes
// whole-structure exclusive access for its duration. The logged-in user is
// held as a value copy of the matched account.
type Manager struct {
	sync.Mutex
	users    []User
	current  User
	loggedIn bool
	nextUID  uint32
	primary  string
}

// NewManager returns a pointer to a new [Manager] seeded with the primary
// administrator account (uid 0). Standard users are handed uids from 1000 up.
func NewManager(adminUser, adminPass string) *Manager {
	return &Manager{
		users: []User{{
			Username: adminUser,
			Role:     RoleAdmin,
			UID:      0,
			digest:   blake3.Sum256([]byte(adminPass)),
		}},
		nextUID: GuestUID,
		primary: adminUser,
	}
}

// Login checks the given credentials and, on success, makes the matched user
// the current one. It reports whether the login succeeded.
func (m *Manager) Login(username, password string) bool {
	m.Lock()
	defer m.Unlock()

	digest := blake3.Sum256([]byte(password))

	for i := range m.users {
		if m.users[i].Username != username {
			continue
		}
		if subtle.ConstantTimeCompare(m.users[i].digest[:], digest[:]) == 1 {
			m.current = m.users[i]
			m.loggedIn = true

			return true
		}
	}

	return false
}

// Logout clears the current user.
func (m *Manager) Logout() {
	m.Lock()
	defer m.Unlock()

	m.current = User{}
	m.loggedIn = false
}

// CurrentUsername returns the logged-in username, or [GuestName] if none.
func (m *Manager) CurrentUsername() string {
	m.Lock()
	defer m.Unlock()

	if !m.loggedIn {
		return GuestName
	}

	return m.current.Username
}

// CurrentUID returns the logged-in uid, or [GuestUID] if none.
func (m *Manager) CurrentUID() uint32 {
	m.Lock()
	defer m.Unlock()

	if !m.loggedIn {
		return GuestUID
	}

	return m.current.UID
}

// IsAdmin reports whether the current user holds the admin role.
func (m *Manager) IsAdmin() bool {
	m.Lock()
	defer m.Unlock()

	return m.loggedIn && m.current.Role == RoleAdmin
}

// AddUser creates a new standard-role user and returns its uid.
func (m *Manager) AddUser(username, password string) (uint32, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("(auth) %w", ErrInvalidName)
	}

	m.Lock()
	defer m.Unlock()

	for i := range m.users {
		if m.users[i].Username == username {
			return 0, fmt.Errorf("(auth) %q: %w", username, ErrUserExists)
		}
	}

	uid := m.nextUID
	m.nextUID++

	m.users = append(m.users, User{
		Username: username,
		Role:     RoleStandard,
		UID:      uid,
		digest:   blake3.Sum256([]byte(password)),
	})

	return uid, nil
}

// DeleteUser removes a stored user. The primary administrator and the
// currently logged-in user are protected from deletion.
func (m *Manager) DeleteUser(username string) error {
	m.Lock()
	defer m.Unlock()

	if username == m.primary {
		return fmt.Errorf("(auth) primary administrator: %w", ErrUserProtected)
	}

	if m.loggedIn && m.current.Username == username {
		return fmt.Errorf("(auth) currently logged in: %w", ErrUserProtected)
	}

	for i := range m.users {
		if m.users[i].Username == username {
			m.users = append(m.users[:i], m.users[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("(auth) %q: %w", username, ErrUserNotFound)
}

// UserCount returns the number of stored users.
func (m *Manager) UserCount() int {
	m.Lock()
	defer m.Unlock()

	return len(m.users)
}
