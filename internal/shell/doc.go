// SPDX-License-Identifier: MPL-2.0

// Package shell runs the external tools a build needs (dotnet, gradle,
// monodis, clang, xcodebuild, ...) and short shell command lines.
//
// Binaries are executed directly with os/exec. Command lines that rely on
// globbing or redirection (for example "ar cr lib.a *.o") run in the embedded
// mvdan/sh interpreter so they behave the same on every host.
package shell
