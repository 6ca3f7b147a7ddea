package main

import "github.com/econexus/econexus/internal/commands"

func main() {
	commands.Execute()
}
