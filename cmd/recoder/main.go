package main

import "github.com/a3tai/mcp-highlight-recoder/internal/cli"

func main() {
	cli.Execute()
}
