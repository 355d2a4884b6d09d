// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/urhonet/cooker/internal/toolchain"
)

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("cooker"), getVersionString())
			goos := app.GOOS
			if goos == "" {
				goos = runtime.GOOS
			}
			fmt.Fprintf(w, "%s %s/%s\n", SubtitleStyle.Render("host:"), goos, runtime.GOARCH)
			fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("minimum dotnet SDK:"), toolchain.MinDotnetVersion)
			return nil
		},
	}
}
