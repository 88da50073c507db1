package main

import "github.com/julienpequegnot/presswatch/cmd"

func main() {
	cmd.Execute()
}
