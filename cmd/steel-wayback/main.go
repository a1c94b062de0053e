package main

import "github.com/pfrederiksen/steel-wayback/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
