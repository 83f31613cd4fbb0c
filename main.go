package main

import (
	"os"

	"github.com/careercrafted/careercrafted/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
