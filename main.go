package main

import (
	"os"

	"github.com/Serhii-Leonenko/ragserver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
