package main

import "dom-snapshot/internal/cli"

func main() {
	cli.Execute()
}
