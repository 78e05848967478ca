// Command acacia is the Acacia compiler's command-line entry point.
package main

import "github.com/acaciamc/acacia/pkg/cmd"

func main() {
	cmd.Execute()
}
