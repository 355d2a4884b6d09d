// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by cooker tests: fixture file
// creation and a scripted shell.Runner that records every command it is
// asked to run.
package testutil
