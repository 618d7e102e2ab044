package main

import "github.com/temirov/findmods/cmd/cli"

// main executes the findmods command-line application.
func main() {
	cli.Run()
}
