// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a cooker build:
//   - CUE config loading and project vars parsing
//   - Module closure resolution and staging
//   - Embedded shell scripts, code generation and report rendering
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark
