package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"seltext/pkg/selection"
)

type getResult struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}

func getCmd(flags *Flags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the current selection (exit 2 when nothing is selected)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags)
			if err != nil {
				return err
			}
			defer SetupLogging(flags, "")()

			a, err := NewApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			text, err := a.selector.GetSelectedText()
			if err != nil && !errors.Is(err, selection.ErrNoSelection) {
				a.RecordError("get", err)
			}
			return printSelection(cmd.OutOrStdout(), text, err, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON object")
	return cmd
}

// printSelection writes the result of one extraction. An empty selection is
// reported as ErrNoSelection so scripts can rely on the exit code.
func printSelection(w io.Writer, text string, err error, asJSON bool) error {
	if err == nil && text == "" {
		err = errors.Wrap(selection.ErrNoSelection, "selection is empty")
	}

	if asJSON {
		res := getResult{Text: text, Length: len(text)}
		if err != nil {
			res.Error = err.Error()
		}
		enc := json.NewEncoder(w)
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		return err
	}
	_, werr := fmt.Fprintln(w, text)
	return werr
}
