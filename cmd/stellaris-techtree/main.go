package main

import "stellaris-techtree/internal/cli"

func main() {
	cli.Execute()
}
