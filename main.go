package main

import "confdesk-cli/cmd"

func main() {
	cmd.Execute()
}
