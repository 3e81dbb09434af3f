package main

import "github.com/TheValverde/spacetraders-mcp/internal/cli"

func main() {
	cli.Execute()
}
