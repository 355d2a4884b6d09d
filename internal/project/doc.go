// SPDX-License-Identifier: MPL-2.0

// Package project loads a game project's description from
// script/project_vars.sh and exposes the paths a mobile build reads from and
// writes to.
//
// project_vars.sh is a POSIX shell file of assignments:
//
//	export PROJECT_UUID='com.example.game'
//	export PROJECT_NAME='Game'
//	export JAVA_PACKAGE_PATH='com/example/game'
//	export PLUGINS=('Admob', 'Billing')
//
// It is parsed, never executed.
package project
