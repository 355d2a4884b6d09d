// SPDX-License-Identifier: MPL-2.0

// Package toolchain locates the URHONET SDK home and the external tools a
// build drives (monodis, dotnet, mono, java, adb, bundletool, obfuscar and the
// iOS AOT compiler).
//
// The SDK home is resolved from, in order: the --home flag, the "home" config
// key, the URHONET_HOME environment variable, and finally the first existing
// directory listed in ~/.urhonet_config/urhonethome.
package toolchain
