package main

import "watchsync/cmd"

func main() {
	cmd.Execute()
}
