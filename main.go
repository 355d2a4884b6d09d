// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/urhonet/cooker/cmd/cooker"

func main() {
	cmd.Execute()
}
