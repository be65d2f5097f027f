package main

import (
	"os"

	"github.com/jobcopilot/jobcopilot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
