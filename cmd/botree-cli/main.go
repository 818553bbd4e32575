package main

import "botree/cmd/botree-cli/cmd"

func main() {
	cmd.Execute()
}
