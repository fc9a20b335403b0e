package main

import (
	"fmt"
	"os"

	"github.com/psantana5/cpxanno/cmd/cpxanno/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
