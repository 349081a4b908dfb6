package main

import (
	"os"

	"github.com/studygen/studygen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
