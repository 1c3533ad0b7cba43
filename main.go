package main

import (
	"os"

	"github.com/abhisek/gasbank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
