package userfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"bluemoon-portal/internal/auth"
	loginapp "bluemoon-portal/internal/login/application"
)

var (
	// ErrInvalidCredentials is returned for unknown users or wrong passwords.
	ErrInvalidCredentials = errors.New("userfile: invalid credentials")
	// ErrRoleNotAllowed is returned when the user may not sign in as the chosen role.
	ErrRoleNotAllowed = errors.New("userfile: role not allowed")
)

// User is one account entry of the users file.
type User struct {
	Username     string   `yaml:"username"`
	PasswordHash string   `yaml:"password_hash"`
	Roles        []string `yaml:"roles"`
}

type usersFile struct {
	Users []User `yaml:"users"`
}

// Verifier checks credentials against a static list of bcrypt-hashed accounts.
type Verifier struct {
	users map[string]User
}

// Load reads a users yaml file.
func Load(path string) (*Verifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a users yaml document.
func Parse(data []byte) (*Verifier, error) {
	var file usersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	users := make(map[string]User, len(file.Users))
	for _, user := range file.Users {
		name := strings.TrimSpace(user.Username)
		if name == "" {
			return nil, errors.New("userfile: empty username")
		}
		if user.PasswordHash == "" {
			return nil, fmt.Errorf("userfile: user %s has no password hash", name)
		}
		for _, role := range user.Roles {
			if _, ok := auth.NormalizeRole(role); !ok {
				return nil, fmt.Errorf("userfile: user %s has unknown role %q", name, role)
			}
		}
		user.Username = name
		users[name] = user
	}
	return &Verifier{users: users}, nil
}

// Verify implements loginapp.Verifier.
func (v *Verifier) Verify(_ context.Context, creds loginapp.Credentials) (string, error) {
	if v == nil {
		return "", ErrInvalidCredentials
	}
	user, ok := v.users[creds.Username]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return "", ErrInvalidCredentials
	}
	for _, role := range user.Roles {
		if auth.Role(role) == creds.Role {
			return user.Username, nil
		}
	}
	return "", ErrRoleNotAllowed
}
