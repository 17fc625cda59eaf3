package main

import "github.com/tessro/strum/internal/cli"

func main() {
	cli.Execute()
}
