package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

const noteColumns = `id, title, content, tags, favorite, created_at, updated_at`

// noteRepository implements ports.NoteRepository using SQLite.
type noteRepository struct {
	db *sql.DB
}

func newNoteRepository(db *sql.DB) ports.NoteRepository {
	return &noteRepository{db: db}
}

// Save persists a note to storage.
func (r *noteRepository) Save(ctx context.Context, note *domain.Note) error {
	query := `INSERT INTO notes (` + noteColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		strings.Join(note.Tags, ","),
		note.Favorite,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if isUniqueConstraintError(err) {
		return domain.ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	return nil
}

// FindByID retrieves a note by its unique identifier.
func (r *noteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return note, nil
}

// FindAll retrieves all notes, newest first.
func (r *noteRepository) FindAll(ctx context.Context) ([]*domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	notes := []*domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Update modifies an existing note.
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	note.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, tags = ?, favorite = ?, updated_at = ? WHERE id = ?
	`, note.Title, note.Content, strings.Join(note.Tags, ","), note.Favorite, note.UpdatedAt, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrNoteNotFound
	}

	return nil
}

// Delete removes a note from storage.
func (r *noteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrNoteNotFound
	}

	return nil
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var tagsStr string

	if err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&tagsStr,
		&note.Favorite,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}

	note.Tags = splitList(tagsStr)
	return &note, nil
}
