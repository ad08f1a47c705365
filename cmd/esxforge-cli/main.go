package main

import "esxforge/cmd/esxforge-cli/cmd"

func main() {
	cmd.Execute()
}
