package main

import "templater/internal/cli"

func main() {
	cli.Execute()
}
