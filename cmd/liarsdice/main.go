package main

import "github.com/mcoot/liarsdice-go/internal/cli"

func main() {
	cli.Execute()
}
