package main

import (
	"os"

	"github.com/aguerin/carnet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
