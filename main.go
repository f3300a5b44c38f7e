// The main package for the eduscout executable.
package main

import (
	"github.com/eduscout/eduscout/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
