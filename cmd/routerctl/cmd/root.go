// Package cmd implements routerctl, a command line tool to build, inspect and send outbound
// cross-chain messages.
package cmd

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

const appName = "routerctl"

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                        appName,
		Short:                      "Build and send outbound cross-chain messages",
		SilenceUsage:               true,
		SuggestionsMinimumDistance: 2, //nolint:mnd // not needed
	}

	rootCmd.AddCommand(
		NewEncodeCmd(),
		NewDecodeCmd(),
		NewSendCmd(),
		NewRoutersCmd(),
	)
	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "failed to marshal output")
	}
	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return eris.Wrap(err, "failed to write output")
	}
	return nil
}
