// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/arduinogen/arduinogen/cmd/arduinogen"

func main() {
	cmd.Execute()
}
