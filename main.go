package main

import "github.com/chriserin/gherkin/cmd"

func main() {
	cmd.Execute()
}
