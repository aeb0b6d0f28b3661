package main

import (
	"os"

	"github.com/lecheel/lrc-maker/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
