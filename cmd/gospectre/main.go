// Command gospectre drives the Cadence Spectre circuit simulator from
// the command line.
package main

import "gospectre/internal/cli"

func main() {
	cli.Execute()
}
