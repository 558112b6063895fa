package main

import (
	"os"

	"github.com/parthivsnair/Resume-Validator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
