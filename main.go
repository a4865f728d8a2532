package main

import "github.com/agentic-research/restcli/cmd"

func main() {
	cmd.Execute()
}
