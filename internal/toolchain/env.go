// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment variables the toolchain honors.
type Env struct {
	// Home is URHONET_HOME, an explicit SDK root.
	Home string `env:"URHONET_HOME"`
	// AndroidHome is the Android SDK root used by gradle and adb.
	AndroidHome string `env:"ANDROID_HOME"`
	// AndroidSDKRoot is the legacy spelling of AndroidHome.
	AndroidSDKRoot string `env:"ANDROID_SDK_ROOT"`
	// JavaHome selects the JDK for java, keytool and jarsigner.
	JavaHome string `env:"JAVA_HOME"`
	// DeveloperDir overrides the active Xcode developer directory.
	DeveloperDir string `env:"DEVELOPER_DIR"`
}

// LoadEnv parses the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse toolchain env: %w", err)
	}
	return e, nil
}

// LoadEnvFrom parses vars instead of the process environment.
func LoadEnvFrom(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse toolchain env: %w", err)
	}
	return e, nil
}

// AndroidSDK returns ANDROID_HOME, falling back to ANDROID_SDK_ROOT.
func (e Env) AndroidSDK() string {
	if e.AndroidHome != "" {
		return e.AndroidHome
	}
	return e.AndroidSDKRoot
}
