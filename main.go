package main

import "github.com/user/trimstrip-cli/cmd"

func main() {
	cmd.Execute()
}
