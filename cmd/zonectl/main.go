package main

import "github.com/Lazypopo/Shift-Schedule-Webapp/internal/cli"

func main() {
	cli.Execute()
}
