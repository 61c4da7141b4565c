package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/sovereignrcm/rcm-site/app/cfg"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sitectl",
		Short:         "sitectl - inspect blog content and run ROI estimates",
		Version:       cfg.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("content-dir", cmp.Or(os.Getenv("CONTENT_DIR"), "./content/blog"), "Directory containing markdown blog posts")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(postsCmd())
	rootCmd.AddCommand(postCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(roiCmd())

	return rootCmd
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
