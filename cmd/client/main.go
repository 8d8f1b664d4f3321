package main

import "leafwise/cmd/client/cmd"

func main() {
	cmd.Execute()
}
