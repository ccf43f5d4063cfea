package main

import "github.com/notargets/goscene/cmd"

func main() {
	cmd.Execute()
}
