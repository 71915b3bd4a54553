package main

import "dialectnet-go/internal/cli"

func main() {
	cli.Execute()
}
