package main

import "Supermarket-Vision-Backend/cmd/commands"

func main() {
	commands.Execute()
}
