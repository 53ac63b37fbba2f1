package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

// stdinName stands for standard input in file arguments and output.
const stdinName = "-"

// input is the content of one file argument.
type input struct {
	name string
	text string
	perm fs.FileMode
}

// readInputs reads every named file, or standard input when none is given.
func readInputs(cmd *cobra.Command, files []string) ([]input, error) {
	if len(files) == 0 {
		files = []string{stdinName}
	}
	inputs := make([]input, 0, len(files))
	for _, name := range files {
		if name == stdinName {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			inputs = append(inputs, input{name: stdinName, text: string(data)})
			continue
		}
		info, err := os.Stat(name)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		inputs = append(inputs, input{name: name, text: string(data), perm: info.Mode().Perm()})
	}
	return inputs, nil
}

// write stores text back into the input's file.
func (in input) write(text string) error {
	if in.name == stdinName {
		return fmt.Errorf("cannot write standard input in place")
	}
	if err := os.WriteFile(in.name, []byte(text), in.perm); err != nil {
		return fmt.Errorf("writing %s: %w", in.name, err)
	}
	return nil
}

// position converts a rune offset into a 1-based line and column.
func position(text []rune, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(text); i++ {
		switch {
		case text[i] == '\n':
			line++
			col = 1
		case text[i] == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			line++
			col = 1
		default:
			col++
		}
	}
	return line, col
}
