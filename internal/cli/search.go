package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/liveedit/internal/document"
	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/search"
	"github.com/dshills/liveedit/internal/textarea"
)

// searchFlags overrides the [search] config section.
type searchFlags struct {
	mode       string
	matchCase  bool
	wholeWords bool
	unicode    bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "pattern mode: normal, wildcard, regex")
	cmd.Flags().BoolVarP(&f.matchCase, "match-case", "c", false, "match case")
	cmd.Flags().BoolVarP(&f.wholeWords, "whole-words", "w", false, "match whole words only")
	cmd.Flags().BoolVar(&f.unicode, "unicode-words", false, "use Unicode word boundaries")
}

// options merges the flags that were set over the configured defaults.
func (f *searchFlags) options(cmd *cobra.Command, e *env, pattern string) (search.Options, error) {
	opts := e.cfg.Search.Options()
	opts.Pattern = pattern
	if cmd.Flags().Changed("mode") {
		mode, err := search.ParseMode(f.mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	}
	if cmd.Flags().Changed("match-case") {
		opts.MatchCase = f.matchCase
	}
	if cmd.Flags().Changed("whole-words") {
		opts.WholeWords = f.wholeWords
	}
	if f.unicode {
		opts.WordBorder = search.UnicodeWordBorder
	}
	return opts, nil
}

// openSession runs a search over text and returns the session with its
// area. The caller closes both.
func openSession(e *env, text string, opts search.Options) (*search.Session, *textarea.TextArea, error) {
	doc := document.New(text, e.cfg.Editor.DocumentOptions()...)
	area := textarea.New(doc)
	sess := search.NewSession(area, search.WithLogger(e.log))
	if err := sess.SetOptions(opts); err != nil {
		sess.Close()
		area.Close()
		return nil, nil, err
	}
	return sess, area, nil
}

func newSearchCommand(e *env) *cobra.Command {
	flags := &searchFlags{}
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "search PATTERN [FILE...]",
		Short: "Print the matches of a pattern",
		Long: `Search prints every match as file:line:column: text. Without files it
reads standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, e, args[0])
			if err != nil {
				return err
			}
			inputs, err := readInputs(cmd, args[1:])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, in := range inputs {
				sess, area, err := openSession(e, in.text, opts)
				if err != nil {
					return err
				}
				results := sess.Results()
				total += len(results)
				if countOnly {
					fmt.Fprintf(out, "%s: %s\n", in.name, countLabel(len(results)))
				} else {
					runes := area.Document().Runes()
					for _, r := range results {
						line, col := position(runes, r.Start)
						fmt.Fprintf(out, "%s:%d:%d: %s\n", in.name, line, col, r.Text())
					}
				}
				sess.Close()
				area.Close()
			}
			e.log.Debug("search complete", logging.FieldPattern, opts.Pattern, logging.FieldResults, total)
			if total == 0 {
				return ErrNoMatches
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&countOnly, "count", false, "print only the number of matches per file")

	return cmd
}

func countLabel(n int) string {
	switch n {
	case 0:
		return "No matches"
	case 1:
		return "1 match"
	default:
		return fmt.Sprintf("%d matches", n)
	}
}
