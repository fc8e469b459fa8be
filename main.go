package main

import "laborctl/cmd"

func main() {
	cmd.Execute()
}
