// Package main is the classlist command: it wires the classroom simulation
// together and runs a demonstration of the assignment lifecycle.
//
// Usage:
//
//	classlist demo --seed 42 --virtual
//	classlist demo --student "Ada Lovelace <ada@example.com>" --work-delay 500ms
//	classlist version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}
