package main

import "github.com/mcoot/kafanski-duel/internal/cli"

func main() {
	cli.Execute()
}
