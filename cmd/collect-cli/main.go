package main

import "collectkit/cmd/collect-cli/cmd"

func main() {
	cmd.Execute()
}
