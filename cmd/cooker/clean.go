// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/urhonet/cooker/internal/android"
	"github.com/urhonet/cooker/internal/ios"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/stage"
)

func newCleanCommand(app *App, flags *globalFlags) *cobra.Command {
	var (
		path   string
		output string
		dryRun bool
	)
	cleanCmd := &cobra.Command{
		Use:   "clean [android|ios]",
		Short: "Remove generated platform trees and build output",
		Long: `Remove generated platform trees and build output.

Without an argument every generated directory is removed: <output>/Android,
<output>/IOS, <project>/output, <project>/Intermediate and
<project>/libs/dotnet/bcl/android. Naming a platform limits the removal to
that platform's directories.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(project.PlatformAndroid), string(project.PlatformIOS)},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags, false)
			if err != nil {
				return app.fail(cmd, err, nil, flags.verbose)
			}
			var target project.Platform
			if len(args) == 1 {
				target = project.Platform(args[0])
			}
			targets, err := cleanTargets(path, output, target)
			if err != nil {
				return app.fail(cmd, err, s.cfg, s.verbose)
			}

			out := cmd.OutOrStdout()
			removed := 0
			for _, t := range targets {
				if !stage.Exists(t) {
					continue
				}
				if !dryRun {
					if err := stage.RemoveAll(t); err != nil {
						return app.fail(cmd, err, s.cfg, s.verbose)
					}
				}
				removed++
				verb := "removed"
				if dryRun {
					verb = "would remove"
				}
				fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render(verb), t)
			}
			if removed == 0 {
				fmt.Fprintln(out, SubtitleStyle.Render("nothing to clean"))
			}
			return nil
		},
	}
	cleanCmd.Flags().StringVarP(&path, "path", "p", ".", "game project directory")
	cleanCmd.Flags().StringVarP(&output, "output", "o", "", "directory holding the platform trees (default is the project)")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be removed")
	return cleanCmd
}

// cleanTargets lists the directories clean removes for target ("" means
// every platform). The project vars file is not needed.
func cleanTargets(path, output string, target project.Platform) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	out := abs
	if output != "" {
		if out, err = filepath.Abs(output); err != nil {
			return nil, fmt.Errorf("resolve output path: %w", err)
		}
	}
	p := project.New(abs, out, project.NewVars())
	al := android.NewLayout(p)
	il := ios.NewLayout(p)

	switch target {
	case project.PlatformAndroid:
		return []string{al.Root, al.ProjectOutput, al.ProjectBCL}, nil
	case project.PlatformIOS:
		return []string{il.Root, p.Join("output", "IOS")}, nil
	default:
		return []string{al.Root, il.Root, p.Join("output"), p.IntermediateDir(), al.ProjectBCL}, nil
	}
}
