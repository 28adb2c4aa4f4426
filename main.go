package main

import "github.com/op5no29/subtitle-generator/internal/cli"

func main() {
	cli.Main()
}
