// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/urhonet/cooker/internal/android"
	"github.com/urhonet/cooker/internal/assembly"
	"github.com/urhonet/cooker/internal/build"
	"github.com/urhonet/cooker/internal/config"
	"github.com/urhonet/cooker/internal/ios"
	"github.com/urhonet/cooker/internal/issue"
	"github.com/urhonet/cooker/internal/platform"
	"github.com/urhonet/cooker/internal/project"
	"github.com/urhonet/cooker/internal/shell"
	"github.com/urhonet/cooker/internal/toolchain"
)

// classifyError maps a failure to the issue catalog entry that explains it.
// Zero means no guide applies.
func classifyError(err error) issue.Id {
	switch {
	case errors.Is(err, toolchain.ErrHomeNotFound):
		return issue.HomeNotFoundId
	case errors.Is(err, project.ErrVarsNotFound):
		return issue.ProjectVarsNotFoundId
	case errors.Is(err, project.ErrInvalidProject):
		return issue.ProjectVarsInvalidId
	case errors.Is(err, assembly.ErrModuleNotFound):
		return issue.EntryModuleNotFoundId
	case errors.Is(err, shell.ErrToolNotFound), errors.Is(err, exec.ErrNotFound):
		return issue.ToolNotFoundId
	case errors.Is(err, ios.ErrXcodeNotFound):
		return issue.XcodeNotFoundId
	case errors.Is(err, platform.ErrHostNotSupported):
		return issue.HostNotSupportedId
	case errors.Is(err, android.ErrInvalidKeystore):
		return issue.KeystoreInvalidId
	case errors.Is(err, build.ErrTemplateMissing):
		return issue.TemplateMissingId
	case errors.Is(err, toolchain.ErrDotnetTooOld):
		return issue.DotnetTooOldId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, shell.ErrCommandFailed):
		return issue.CommandFailedId
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Operation == "load configuration" {
		return issue.ConfigLoadFailedId
	}
	return 0
}

// guideStyle picks the glamour style for issue guides.
func guideStyle(cfg *config.Config) string {
	if cfg == nil {
		return "auto"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// fail reports err on stderr with its remediation guide and returns an
// ExitError so fang does not print it again.
func (a *App) fail(cmd *cobra.Command, err error, cfg *config.Config, verbose bool) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	renderError(a.stderr, err, classifyError(err), guideStyle(cfg), verbose)
	return &ExitError{Code: 1, Err: err}
}

func renderError(w io.Writer, err error, id issue.Id, style string, verbose bool) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(style)
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}
