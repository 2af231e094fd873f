package main

import "github.com/forPelevin/sermonsearch/internal/cli"

func main() {
	cli.Main()
}
