package main

import (
	"fmt"
	"os"

	"recruit-dash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "recruitctl: %v\n", err)
		os.Exit(1)
	}
}
