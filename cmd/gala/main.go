package main

import "github.com/bloomday/gala/internal/cli/cmd"

func main() {
	cmd.Execute()
}
