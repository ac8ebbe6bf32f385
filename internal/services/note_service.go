package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// NoteService handles note use cases.
type NoteService struct {
	storage ports.Storage
}

// NewNoteService creates a new note service.
func NewNoteService(storage ports.Storage) *NoteService {
	return &NoteService{storage: storage}
}

// AddNote creates a note. tags is comma-separated.
func (s *NoteService) AddNote(ctx context.Context, title, content, tags string) (*domain.Note, error) {
	note, err := domain.NewNote(title, content, tags)
	if err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	if err := s.storage.Notes().Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	return note, nil
}

// UpdateNote replaces a note's title, content and tags.
func (s *NoteService) UpdateNote(ctx context.Context, id, title, content, tags string) (*domain.Note, error) {
	note, err := s.storage.Notes().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	if err := note.Edit(title, content, tags); err != nil {
		return nil, fmt.Errorf("invalid note: %w", err)
	}

	if err := s.storage.Notes().Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// ToggleFavorite flips a note's favorite flag.
func (s *NoteService) ToggleFavorite(ctx context.Context, id string) (*domain.Note, error) {
	note, err := s.storage.Notes().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	note.ToggleFavorite()
	if err := s.storage.Notes().Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, id string) error {
	return s.storage.Notes().Delete(ctx, id)
}

// GetNote retrieves a single note by ID.
func (s *NoteService) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	return s.storage.Notes().FindByID(ctx, id)
}

// ListNotes returns all notes in the requested order.
func (s *NoteService) ListNotes(ctx context.Context, order domain.NoteSort) ([]*domain.Note, error) {
	notes, err := s.storage.Notes().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	domain.SortNotes(notes, order)
	return notes, nil
}

// noteSource adapts notes to fuzzy.Source.
type noteSource []*domain.Note

func (n noteSource) String(i int) string { return n[i].SearchText() }
func (n noteSource) Len() int            { return len(n) }

// SearchNotes fuzzy-matches query against title, content and tags, best
// match first. An empty query returns every note, newest first.
func (s *NoteService) SearchNotes(ctx context.Context, query string) ([]*domain.Note, error) {
	notes, err := s.ListNotes(ctx, domain.SortNewest)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return notes, nil
	}

	matches := fuzzy.FindFrom(query, noteSource(notes))
	result := make([]*domain.Note, 0, len(matches))
	for _, match := range matches {
		result = append(result, notes[match.Index])
	}
	return result, nil
}
