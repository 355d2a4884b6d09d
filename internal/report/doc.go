// SPDX-License-Identifier: MPL-2.0

// Package report renders a resolved module closure for people and tools:
// styled text, JSON, TOML, or Markdown.
package report
