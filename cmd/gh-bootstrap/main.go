package main

import "ghbootstrap/internal/cmd"

func main() {
	cmd.Execute()
}
