package main

import "github.com/canopy-network/cardano/cmd/cli"

func main() {
	cli.Execute()
}
