package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/s3proxy"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path> [path] ...",
	Short: "Show the object key and content type for request paths",
	Long: `Resolve request paths the way the server does, without contacting
the store.

Examples:
  s3proxy resolve / /about/ /logo.png /../../etc/passwd`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{skipConfig: ""},
	RunE:        runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PATH\tKEY\tCONTENT-TYPE")

	rejected := 0
	for _, p := range args {
		key, err := s3proxy.ResolveKey(p)
		if err != nil {
			if !errors.Is(err, s3proxy.ErrRejected) {
				return err
			}
			rejected++
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%q: %v\n", p, err)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p, key, s3proxy.ContentType(key))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if rejected > 0 {
		return fmt.Errorf("%d of %d paths rejected", rejected, len(args))
	}
	return nil
}
