package main

import "github.com/chriserin/gherkin-gen/cmd"

func main() {
	cmd.Execute()
}
