package main

import "github.com/showcase-dev/showcase/cmd"

func main() {
	cmd.Execute()
}
