package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Manager creates uniquely named scoped workspaces under a base directory.
type Manager struct {
	baseDir string
}

// NewManager constructs a Manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: strings.TrimSpace(baseDir)}
}

// BaseDir returns the directory workspaces are created under.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Acquire creates a fresh, uniquely named workspace directory. Callers must
// pair every Acquire with Release, typically via defer, so staged files are
// removed on every exit path.
func (m *Manager) Acquire() (*Workspace, error) {
	if m.baseDir == "" {
		return nil, fmt.Errorf("workspace base directory not configured")
	}
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure workspace base: %w", err)
	}
	dir := filepath.Join(m.baseDir, "job-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Workspace is an isolated temporary directory owned by one operation.
type Workspace struct {
	dir string
}

// Dir returns the workspace root directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path resolves a bare filename inside the workspace. Names containing path
// separators or traversal elements are rejected so no invocation ever
// receives a path outside the workspace.
func (w *Workspace) Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(w.dir, name), nil
}

// Stage writes data as a child file of the workspace and returns its path.
func (w *Workspace) Stage(name string, data []byte) (string, error) {
	path, err := w.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("stage %s: %w", name, err)
	}
	return path, nil
}

// Release deletes the workspace directory and all contents unconditionally.
// Safe to call on a nil workspace and safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil || w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	w.dir = ""
	return err
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("staged filename must not be empty")
	}
	if trimmed != filepath.Base(trimmed) || trimmed == "." || trimmed == ".." {
		return fmt.Errorf("staged filename %q must be a bare filename", name)
	}
	return nil
}
