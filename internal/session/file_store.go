package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/mediride/internal/models"
)

// FileStore persists sessions as one JSON file keyed by role, so a login
// survives process restarts and logging in as one role never clobbers
// another's tokens.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(role models.Role, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.read()
	if err != nil {
		return err
	}
	all[role] = s
	return f.write(all)
}

func (f *FileStore) Load(role models.Role) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.read()
	if err != nil {
		return models.Session{}, err
	}
	s, ok := all[role]
	if !ok {
		return models.Session{}, ErrNoSession
	}
	return s, nil
}

func (f *FileStore) Clear(role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.read()
	if err != nil {
		return err
	}
	delete(all, role)
	return f.write(all)
}

func (f *FileStore) read() (map[models.Role]models.Session, error) {
	out := make(map[models.Role]models.Session)
	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}
	return out, nil
}

func (f *FileStore) write(all map[models.Role]models.Session) error {
	b, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating session dir: %w", err)
		}
	}
	// tokens on disk, keep it private to the user
	return os.WriteFile(f.path, b, 0o600)
}
