package main

import "github.com/KaramelBytes/radioscope-cli/cmd"

func main() {
	cmd.Execute()
}
