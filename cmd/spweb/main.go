package main

import "github.com/smartplate/smartplate/cmd/spweb/command"

func main() {
	command.Execute()
}
