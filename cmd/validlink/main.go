package main

import "github.com/abdul-hamid-achik/validlink/cmd/validlink/commands"

func main() {
	commands.Execute()
}
