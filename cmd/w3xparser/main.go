package main

import "w3xparser/internal/cli"

func main() {
	cli.Execute()
}
