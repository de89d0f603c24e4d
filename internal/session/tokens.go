package session

import (
	"errors"

	"github.com/example/mediride/internal/models"
)

// RoleTokens adapts one role's slot in a Store to the api client's
// TokenSource. Clearing tokens is the "hard logout": the whole cached
// session for the role goes away, profile included.
type RoleTokens struct {
	Store Store
	Role  models.Role
}

func (r RoleTokens) Tokens() (string, string, error) {
	s, err := r.Store.Load(r.Role)
	if errors.Is(err, ErrNoSession) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return s.AccessToken, s.RefreshToken, nil
}

func (r RoleTokens) SetAccess(access string) error {
	s, err := r.Store.Load(r.Role)
	if err != nil {
		return err
	}
	s.AccessToken = access
	return r.Store.Save(r.Role, s)
}

func (r RoleTokens) Clear() error {
	return r.Store.Clear(r.Role)
}
