package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/snippet/library"
)

func newSnippetsCommand(e *env) *cobra.Command {
	var libraries []string
	var watch bool

	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "List the snippets in the configured libraries",
		Long: `Snippets lists every snippet with its fields and description. With
--watch it keeps running and prints the list again whenever a library file
changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := e.openLibrary(libraries)
			if err != nil {
				return err
			}
			defer lib.Close()

			out := cmd.OutOrStdout()
			if err := listSnippets(out, lib); err != nil {
				return err
			}
			keepWatching := e.cfg.Snippets.Watch
			if cmd.Flags().Changed("watch") {
				keepWatching = watch
			}
			if !keepWatching {
				return nil
			}

			ctx := cmd.Context()
			reloaded := make(chan error, 1)
			lib.OnReload(func(err error) {
				select {
				case reloaded <- err:
				default:
				}
			})
			if err := lib.Watch(ctx); err != nil {
				return err
			}
			e.log.Info("watching snippet libraries")
			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-reloaded:
					if err != nil {
						e.log.Warn("snippet library reloaded with errors", logging.FieldError, err)
					}
					fmt.Fprintln(out)
					if err := listSnippets(out, lib); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().StringArrayVarP(&libraries, "library", "l", nil, "additional library file or directory")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and reprint on library changes")

	return cmd
}

func listSnippets(w io.Writer, lib *library.Library) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range lib.Names() {
		entry, err := lib.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%v\t%s\n", name, entry.Snippet.FieldNames(), entry.Description)
	}
	return tw.Flush()
}
