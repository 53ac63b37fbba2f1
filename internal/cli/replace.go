package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/search"
)

func newReplaceCommand(e *env) *cobra.Command {
	flags := &searchFlags{}
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "replace PATTERN REPLACEMENT [FILE...]",
		Short: "Replace every match of a pattern",
		Long: `Replace substitutes every match and prints the result, or rewrites the
files with --in-place. In regex mode the replacement expands $0, $&, $n,
${n}, ${name} and $$.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, e, args[0])
			if err != nil {
				return err
			}
			inputs, err := readInputs(cmd, args[2:])
			if err != nil {
				return err
			}

			for _, in := range inputs {
				n, text, err := replaceText(e, in.text, opts, args[1])
				if err != nil {
					return fmt.Errorf("%s: %w", in.name, err)
				}
				e.log.Info("replaced", logging.FieldPath, in.name, logging.FieldReplace, n)
				if inPlace {
					if n > 0 {
						if err := in.write(text); err != nil {
							return err
						}
					}
					continue
				}
				if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "rewrite files instead of printing")

	return cmd
}

func replaceText(e *env, text string, opts search.Options, template string) (int, string, error) {
	sess, area, err := openSession(e, text, opts)
	if err != nil {
		return 0, "", err
	}
	defer area.Close()
	defer sess.Close()

	n, err := sess.ReplaceAll(template)
	if err != nil {
		return 0, "", err
	}
	return n, area.Document().Text(), nil
}
