package main

import "github.com/devbush/vid2audio/internal/adapters/cli"

func main() {
	cli.Execute()
}
