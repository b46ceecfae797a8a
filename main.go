package main

import "github.com/slidekit/deepzoom/cmd"

func main() {
	cmd.Execute()
}
