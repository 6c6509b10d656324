package main

import "tablediff/cmd"

func main() {
	cmd.Execute()
}
