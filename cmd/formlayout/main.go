// Package main provides the formlayout command line: create, edit, render and
// fill form layouts, and keep a library of saved layouts.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}
