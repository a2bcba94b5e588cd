package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// build is stamped by main from -ldflags.
var build = struct {
	version, commit, date string
}{"dev", "none", "unknown"}

func SetVersion(version, commit, date string) {
	build.version, build.commit, build.date = version, commit, date
}

func printBuild(w io.Writer, short bool) {
	if short {
		fmt.Fprintln(w, build.version)
		return
	}
	fmt.Fprintf(w, "eye-diagnosis-api %s\nCommit: %s\nBuilt:  %s\nGo:     %s %s/%s\n",
		build.version, build.commit, build.date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func NewVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Print the build stamp of the diagnosis server binary. Use --short when only the version number is wanted.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printBuild(cmd.OutOrStdout(), short)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the version number only")
	return cmd
}
