// SPDX-License-Identifier: MPL-2.0

// Package assembly computes the transitive closure of managed modules that a
// compiled entry module (Game.dll) depends on.
//
// The closure is discovered by reading each module's assembly references with
// a MetadataReader and locating every referenced module in an ordered list of
// search roots. The first root that contains a file wins. References that
// cannot be located are dropped; callers that care can observe them through an
// Observer. The entry module itself is never part of its own closure.
package assembly
