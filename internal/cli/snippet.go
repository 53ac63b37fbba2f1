package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/liveedit/internal/document"
	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/snippet"
	"github.com/dshills/liveedit/internal/snippet/library"
	"github.com/dshills/liveedit/internal/textarea"
)

// openLibrary loads the configured libraries plus extra. Files that fail to
// load are reported and skipped as long as some snippet loaded.
func (e *env) openLibrary(extra []string) (*library.Library, error) {
	paths := append(append([]string(nil), e.cfg.Snippets.Libraries...), extra...)
	if len(paths) == 0 {
		return nil, errors.New("no snippet libraries configured; use --library or [snippets] libraries")
	}
	lib := library.New(library.WithLogger(e.log))
	if err := lib.Load(paths...); err != nil {
		if lib.Len() == 0 {
			lib.Close()
			return nil, err
		}
		e.log.Warn("some snippets failed to load", logging.FieldError, err)
	}
	return lib, nil
}

type snippetFlags struct {
	libraries []string
	set       []string
	at        int
	inPlace   bool
}

func newSnippetCommand(e *env) *cobra.Command {
	flags := &snippetFlags{}

	cmd := &cobra.Command{
		Use:   "snippet NAME [FILE]",
		Short: "Expand a library snippet into a file",
		Long: `Snippet inserts the named snippet at --at (default: end of the file),
fills its fields from --set name=value and prints the result. Fields
mirrored elsewhere in the snippet follow the value. Without FILE the
snippet expands into standard input.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(flags.set)
			if err != nil {
				return err
			}
			lib, err := e.openLibrary(flags.libraries)
			if err != nil {
				return err
			}
			defer lib.Close()

			entry, err := lib.Get(args[0])
			if err != nil {
				return err
			}
			inputs, err := readInputs(cmd, args[1:])
			if err != nil {
				return err
			}
			in := inputs[0]

			text, err := expandSnippet(e, entry.Snippet, in.text, flags.at, values)
			if err != nil {
				return fmt.Errorf("snippet %q: %w", args[0], err)
			}
			if flags.inPlace {
				return in.write(text)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&flags.libraries, "library", "l", nil, "additional library file or directory")
	cmd.Flags().StringArrayVarP(&flags.set, "set", "s", nil, "field value as name=value")
	cmd.Flags().IntVar(&flags.at, "at", -1, "insertion offset in characters; negative means end of file")
	cmd.Flags().BoolVarP(&flags.inPlace, "in-place", "i", false, "rewrite FILE instead of printing")

	return cmd
}

// fieldValue is one --set assignment.
type fieldValue struct {
	name, value string
}

func parseAssignments(set []string) ([]fieldValue, error) {
	values := make([]fieldValue, 0, len(set))
	for _, s := range set {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want name=value", s)
		}
		values = append(values, fieldValue{name: name, value: value})
	}
	return values, nil
}

// expandSnippet inserts s into text at offset, types the field values and
// finishes the session as if Enter was pressed.
func expandSnippet(e *env, s *snippet.Snippet, text string, offset int, values []fieldValue) (string, error) {
	doc := document.New(text, e.cfg.Editor.DocumentOptions()...)
	area := textarea.New(doc)
	defer area.Close()

	if offset < 0 || offset > doc.Len() {
		offset = doc.Len()
	}
	area.SetCaret(offset)

	ins := s.Insert(area, snippet.WithLogger(e.log))
	defer ins.Deactivate(snippet.Unknown)

	for _, v := range values {
		field := s.Field(v.name)
		if field == nil {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, v.name)
		}
		active, ok := ins.ActiveElement(field).(*snippet.ReplaceableActive)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, v.name)
		}
		if err := active.SetText(v.value); err != nil {
			return "", err
		}
	}

	ins.Deactivate(snippet.ReturnPressed)
	e.log.Debug("snippet expanded", logging.FieldSnippet, ins.ID(), "caret", area.Caret())
	return doc.Text(), nil
}
