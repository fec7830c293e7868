package main

import "ipc2kicad/internal/cli"

func main() {
	cli.Execute()
}
