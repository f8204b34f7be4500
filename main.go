// main package for lstt command-line tool
// Package main is the entry point for the lstt CLI.
package main

import "lstt/cmd"

func main() {
	cmd.Execute()
}
