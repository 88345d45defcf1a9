package main

import "github.com/chriserin/shallot/cmd"

func main() {
	cmd.Execute()
}
