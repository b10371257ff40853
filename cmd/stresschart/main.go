package main

import "github.com/emiliopalmerini/stresschart/internal/cli"

func main() {
	cli.Execute()
}
