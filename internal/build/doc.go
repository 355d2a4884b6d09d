// SPDX-License-Identifier: MPL-2.0

// Package build holds what the Android and iOS builders share: build options,
// the environment a build runs in, and the steps both platforms perform
// (compiling the game project, optional obfuscation, and resolving and
// staging the managed-module closure of Game.dll).
package build
