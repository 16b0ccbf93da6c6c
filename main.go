package main

import "f1duel/cmd"

func main() {
	cmd.Execute()
}
