package main

import "github.com/relaydrop/cli/cmd"

func main() {
	cmd.Execute()
}
