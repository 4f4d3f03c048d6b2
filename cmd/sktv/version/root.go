package version

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "version",
		Short: "show version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ShowVersion(cmd.OutOrStdout())
		},
	}
	return rootCmd
}

func ShowVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "sktv %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}
