package domain

import (
	"sort"
	"strings"
	"time"
)

// Note is a free-form text entry.
type Note struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	Favorite  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteSort orders a note listing.
type NoteSort string

const (
	SortNewest    NoteSort = "newest"
	SortOldest    NoteSort = "oldest"
	SortFavorites NoteSort = "favorites"
)

// NewNote creates a note. tags is comma-separated input.
func NewNote(title, content, tags string) (*Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Note{
		ID:        generateID(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		Tags:      ParseTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Edit replaces title, content and tags. Favorite is unchanged.
func (n *Note) Edit(title, content, tags string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	n.Title = strings.TrimSpace(title)
	n.Content = content
	n.Tags = ParseTags(tags)
	n.UpdatedAt = time.Now()
	return nil
}

// ToggleFavorite flips the favorite flag.
func (n *Note) ToggleFavorite() {
	n.Favorite = !n.Favorite
	n.UpdatedAt = time.Now()
}

// SearchText is the text fuzzy search matches against.
func (n *Note) SearchText() string {
	return n.Title + " " + n.Content + " " + strings.Join(n.Tags, " ")
}

// SortNotes orders notes in place. Favorites sort first, newest within each group.
func SortNotes(notes []*Note, s NoteSort) {
	switch s {
	case SortOldest:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		})
	case SortFavorites:
		sort.SliceStable(notes, func(i, j int) bool {
			if notes[i].Favorite != notes[j].Favorite {
				return notes[i].Favorite
			}
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	default:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	}
}
