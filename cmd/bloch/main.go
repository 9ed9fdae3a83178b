package main

import "github.com/theapemachine/bloch/cmd"

func main() {
	cmd.Execute()
}
