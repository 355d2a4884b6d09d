// SPDX-License-Identifier: MPL-2.0

// Package stage copies, rewrites and removes the files that make up a
// platform build tree. Copies can be skipped when the destination already
// holds identical content (compared by SHA-512), and directory copies honor
// doublestar exclude patterns matched against slash-separated paths relative
// to the source root.
package stage
