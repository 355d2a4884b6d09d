// SPDX-License-Identifier: MPL-2.0

// Package config handles cooker configuration using Viper.
//
// The configuration file is CUE (config.cue in the platform config directory)
// validated against an embedded #Config schema, merged over defaults, and
// overridable through COOKER_* environment variables.
package config
