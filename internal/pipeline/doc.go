// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs an ordered set of named build steps. Steps declare
// the steps they must follow; the order is resolved with package dag, steps
// whose condition is false are skipped, and the first failure stops the run.
package pipeline
