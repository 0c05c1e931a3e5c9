package programs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"hubportal/internal/config"
	"hubportal/internal/services"
)

// Store manages program persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the programs database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.ProgramsDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Create stores a new program and returns the persisted record.
func (s *Store) Create(ctx context.Context, draft Draft) (*Program, error) {
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO programs (id, name, python_code, blockly_xml, mode, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		draft.Name,
		draft.PythonCode,
		draft.BlocklyXML,
		string(draft.Mode),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert program: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches one program by ID.
func (s *Store) Get(ctx context.Context, id string) (*Program, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, python_code, blockly_xml, mode, created_at, updated_at
         FROM programs WHERE id = ?`,
		id,
	)
	program, err := scanProgram(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "programs", "get", fmt.Sprintf("program %s not found", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	return program, nil
}

// Update overwrites an existing program's content and bumps updated_at.
func (s *Store) Update(ctx context.Context, id string, draft Draft) (*Program, error) {
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE programs SET name = ?, python_code = ?, blockly_xml = ?, mode = ?, updated_at = ?
         WHERE id = ?`,
		draft.Name,
		draft.PythonCode,
		draft.BlocklyXML,
		string(draft.Mode),
		timestamp,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "programs", "update", fmt.Sprintf("program %s not found", id), nil)
	}
	return s.Get(ctx, id)
}

// Delete removes a program by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM programs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "programs", "delete", fmt.Sprintf("program %s not found", id), nil)
	}
	return nil
}

// List returns all programs ordered by most recently updated.
func (s *Store) List(ctx context.Context) ([]*Program, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, name, python_code, blockly_xml, mode, created_at, updated_at
         FROM programs ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []*Program
	for rows.Next() {
		program, scanErr := scanProgram(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan program: %w", scanErr)
		}
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	return programs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (*Program, error) {
	var (
		program   Program
		mode      string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&program.ID, &program.Name, &program.PythonCode, &program.BlocklyXML, &mode, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	program.Mode = Mode(mode)

	var err error
	if program.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if program.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &program, nil
}

func validateDraft(draft *Draft) error {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return services.Wrap(services.ErrValidation, "programs", "validate", "program name is required", nil)
	}
	if len([]rune(draft.Name)) > maxNameLength {
		return services.Wrap(services.ErrValidation, "programs", "validate",
			fmt.Sprintf("program name exceeds %d characters", maxNameLength), nil)
	}
	if draft.Mode == "" {
		draft.Mode = ModePython
	}
	if !validMode(draft.Mode) {
		return services.Wrap(services.ErrValidation, "programs", "validate",
			fmt.Sprintf("unknown program mode %q", draft.Mode), nil)
	}
	return nil
}
