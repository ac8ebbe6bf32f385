package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo-cli/internal/domain"
)

var (
	noteContent string
	noteTags    string
	noteTitle   string
	noteSort    string
	noteYes     bool
)

// noteCmd groups the note subcommands
var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Write, search and favorite notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := app.notes.AddNote(cmd.Context(), joinArgs(args), noteContent, noteTags)
		if err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, noteData(note))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📝 Note added: %s (ID: %s)\n", note.Title, shortID(note.ID))
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long:  `List notes sorted by newest, oldest or favorites (favorites first, then newest).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := app.notes.ListNotes(cmd.Context(), domain.NoteSort(noteSort))
		if err != nil {
			return err
		}
		return printNotes(cmd, notes)
	},
}

var noteSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Fuzzy search notes by title, content and tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := app.notes.SearchNotes(cmd.Context(), joinArgs(args))
		if err != nil {
			return err
		}
		return printNotes(cmd, notes)
	},
}

var noteFavCmd = &cobra.Command{
	Use:   "fav [note-id]",
	Short: "Toggle a note's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveNoteID(ctx, args[0])
		if err != nil {
			return err
		}

		note, err := app.notes.ToggleFavorite(ctx, id)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, noteData(note))
		}
		if note.Favorite {
			fmt.Fprintf(cmd.OutOrStdout(), "⭐ %s added to favorites\n", note.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "☆ %s removed from favorites\n", note.Title)
		}
		return nil
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit [note-id]",
	Short: "Edit a note",
	Long:  `Change a note's title, content or tags. Only the flags given are changed; the favorite flag is kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveNoteID(ctx, args[0])
		if err != nil {
			return err
		}

		note, err := app.notes.GetNote(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		title, content, tags := note.Title, note.Content, strings.Join(note.Tags, ",")
		flags := cmd.Flags()
		if flags.Changed("title") {
			title = noteTitle
		}
		if flags.Changed("content") {
			content = noteContent
		}
		if flags.Changed("tags") {
			tags = noteTags
		}

		note, err = app.notes.UpdateNote(ctx, id, title, content, tags)
		if err != nil {
			return fmt.Errorf("failed to edit note: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, noteData(note))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Note updated: %s\n", note.Title)
		return nil
	},
}

var noteRmCmd = &cobra.Command{
	Use:     "rm [note-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveNoteID(ctx, args[0])
		if err != nil {
			return err
		}

		note, err := app.notes.GetNote(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		if !jsonOutput && !noteYes {
			if !confirm(cmd, fmt.Sprintf("Delete note '%s'?", note.Title)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
				return nil
			}
		}

		if err := app.notes.DeleteNote(ctx, id); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, map[string]interface{}{"deleted": true, "note_id": id})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Note '%s' deleted.\n", note.Title)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{noteAddCmd, noteEditCmd} {
		c.Flags().StringVarP(&noteContent, "content", "c", "", "Note body")
		c.Flags().StringVarP(&noteTags, "tags", "t", "", "Comma-separated tags")
	}
	noteEditCmd.Flags().StringVar(&noteTitle, "title", "", "New title")
	noteListCmd.Flags().StringVarP(&noteSort, "sort", "s", string(domain.SortNewest), "Sort: newest, oldest or favorites")
	noteRmCmd.Flags().BoolVarP(&noteYes, "yes", "y", false, "Delete without asking")

	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteSearchCmd, noteFavCmd, noteEditCmd, noteRmCmd)
}

func printNotes(cmd *cobra.Command, notes []*domain.Note) error {
	if jsonOutput {
		list := make([]map[string]interface{}, 0, len(notes))
		for _, n := range notes {
			list = append(list, noteData(n))
		}
		return printJSON(cmd, map[string]interface{}{
			"notes": list,
			"count": len(list),
		})
	}

	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes found.")
		return nil
	}

	fmt.Fprintf(out, "📝 Notes (%d):\n\n", len(notes))
	for _, n := range notes {
		star := " "
		if n.Favorite {
			star = "⭐"
		}
		fmt.Fprintf(out, "%s %s (ID: %s)\n", star, n.Title, shortID(n.ID))
		if n.Content != "" {
			fmt.Fprintf(out, "   %s\n", firstLine(n.Content))
		}
		if len(n.Tags) > 0 {
			fmt.Fprintf(out, "   Tags: %v\n", n.Tags)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func resolveNoteID(ctx context.Context, prefix string) (string, error) {
	notes, err := app.notes.ListNotes(ctx, domain.SortNewest)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return resolveID(prefix, ids, domain.ErrNoteNotFound)
}
