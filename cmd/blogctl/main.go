package main

import "github.com/artem13815/blog/cmd/blogctl/commands"

func main() {
	commands.Execute()
}
