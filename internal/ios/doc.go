// SPDX-License-Identifier: MPL-2.0

// Package ios builds an Xcode project for a game, AOT-compiling the game
// module and its managed dependencies into a static library. iOS builds
// require a macOS host with Xcode installed.
package ios
