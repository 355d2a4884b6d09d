// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and
// suggestions for the user. Issue is a catalog of Markdown remediation guides,
// rendered with glamour, that the CLI prints for well-known failure classes
// such as a missing URHONET home or a missing Xcode toolchain.
package issue
