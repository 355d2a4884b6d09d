// SPDX-License-Identifier: MPL-2.0

// Package android turns a game project into an Android App Bundle.
//
// The first build copies the SDK's Android gradle project into
// <output>/Android; later builds refresh the generated files (build.gradle,
// AndroidManifest.xml, native libraries, staged assets and managed modules)
// and rebuild the bundle with gradle. Signing and installing on a connected
// device are optional trailing steps.
package android
