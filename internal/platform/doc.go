// SPDX-License-Identifier: MPL-2.0

// Package platform describes the host a build runs on and the names that are
// safe to use as file or project names across hosts.
package platform
