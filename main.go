package main

import "github.com/Rorical/CosmicDialog/cmd"

func main() {
	cmd.Execute()
}
