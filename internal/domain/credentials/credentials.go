// Package credentials loads teacher credentials and verifies passwords.
//
// The teachers file is JSON: {"teachers": [{"username": "...", "password": "..."}]}.
// A password may be stored in plaintext or as a bcrypt hash ($2a$/$2b$/$2y$).
package credentials

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Teacher is one record of the teachers file.
type Teacher struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type file struct {
	Teachers []Teacher `json:"teachers"`
}

// Set is an immutable username -> secret mapping.
type Set struct {
	secrets map[string]string
	hashed  bool
}

var dummySecret = []byte("mergington-unknown-teacher")

// dummyHash is compared against when an unknown user logs in to a set that
// holds bcrypt secrets.
var dummyHash = sync.OnceValue(func() []byte {
	hashed, err := bcrypt.GenerateFromPassword(dummySecret, bcrypt.DefaultCost)
	if err != nil {
		return nil
	}
	return hashed
})

// New builds a Set from teacher records. Later duplicates replace earlier ones.
func New(teachers ...Teacher) *Set {
	s := &Set{secrets: make(map[string]string, len(teachers))}
	for _, t := range teachers {
		s.secrets[t.Username] = t.Password
		s.hashed = s.hashed || isBcrypt(t.Password)
	}
	return s
}

// Load reads the teachers file at path. A missing file yields an empty Set.
func Load(_ context.Context, path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a teachers document.
func Parse(r io.Reader) (*Set, error) {
	var doc file
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	for i, t := range doc.Teachers {
		if strings.TrimSpace(t.Username) == "" {
			return nil, fmt.Errorf("%w: teacher #%d has no username", ErrLoad, i)
		}
	}
	return New(doc.Teachers...), nil
}

// Len returns the number of known teachers.
func (s *Set) Len() int {
	return len(s.secrets)
}

// Verify reports whether password matches the stored secret for username.
func (s *Set) Verify(username, password string) bool {
	secret, ok := s.secrets[username]
	if !ok {
		// unknown users cost the same as a wrong password
		if s.hashed {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		} else {
			_ = subtle.ConstantTimeCompare(dummySecret, []byte(password))
		}
		return false
	}
	if isBcrypt(secret) {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
}

// Hash produces a bcrypt hash suitable for the teachers file.
func Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password cannot be empty", ErrHash)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHash, err)
	}
	return string(hashed), nil
}

func isBcrypt(secret string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(secret, prefix) {
			return true
		}
	}
	return false
}
