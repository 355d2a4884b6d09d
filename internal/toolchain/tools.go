// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"path/filepath"
	"runtime"
)

type (
	// Overrides holds user-configured tool paths. Empty fields fall back to
	// the SDK layout or PATH.
	Overrides struct {
		Monodis string
		Dotnet  string
		Java    string
		Adb     string
		Mono    string
	}

	// Tools is the set of tool paths a build uses.
	Tools struct {
		// Home is the SDK root.
		Home string
		// Monodis dumps assembly references.
		Monodis string
		// Dotnet builds the game project.
		Dotnet string
		// Mono runs obfuscar.
		Mono string
		// Java runs bundletool.
		Java string
		// Adb talks to the connected Android device.
		Adb string
		// Keytool and Jarsigner come from the JDK.
		Keytool   string
		Jarsigner string
		// Bundletool is the path to bundletool.jar.
		Bundletool string
		// Obfuscar is the path to Obfuscar.Console.exe.
		Obfuscar string
		// AOTCompiler is the iOS cross-compiling mono-sgen.
		AOTCompiler string
	}
)

// NewTools lays out tool paths for home on the given host OS (runtime.GOOS
// when empty).
func NewTools(home, goos string, env Env, o Overrides) *Tools {
	if goos == "" {
		goos = runtime.GOOS
	}
	t := &Tools{
		Home:        home,
		Monodis:     or(o.Monodis, MonodisPath(home, goos)),
		Dotnet:      or(o.Dotnet, "dotnet"),
		Mono:        or(o.Mono, "mono"),
		Java:        or(o.Java, jdkTool(env.JavaHome, "java", goos)),
		Adb:         or(o.Adb, adbPath(env.AndroidSDK(), goos)),
		Keytool:     jdkTool(env.JavaHome, "keytool", goos),
		Jarsigner:   jdkTool(env.JavaHome, "jarsigner", goos),
		Bundletool:  filepath.Join(home, "tools", "bundletool.jar"),
		Obfuscar:    filepath.Join(home, "tools", "obfuscar", "Obfuscar.Console.exe"),
		AOTCompiler: filepath.Join(home, "tools", "aotcompiler", "ios", "macos", "ios-arm64", "aarch64-apple-darwin-mono-sgen"),
	}
	return t
}

// MonodisPath returns the SDK-bundled monodis for goos.
func MonodisPath(home, goos string) string {
	switch goos {
	case "windows":
		return filepath.Join(home, "tools", "monodis", "windows", "monodis.exe")
	case "darwin":
		return filepath.Join(home, "tools", "monodis", "macos", "monodis")
	default:
		return filepath.Join(home, "tools", "monodis", "linux", "monodis")
	}
}

func jdkTool(javaHome, name, goos string) string {
	if javaHome == "" {
		return name
	}
	return filepath.Join(javaHome, "bin", name+exeSuffix(goos))
}

func adbPath(sdk, goos string) string {
	if sdk == "" {
		return "adb"
	}
	return filepath.Join(sdk, "platform-tools", "adb"+exeSuffix(goos))
}

func exeSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
