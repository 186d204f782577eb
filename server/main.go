package main

import (
	"os"

	"github.com/phambaophuc/webp-converter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
