// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cooker command tree: build, clean, deps, config
// and version. Command handlers parse flags, build an App-scoped logger and
// delegate to the internal packages.
package cmd
