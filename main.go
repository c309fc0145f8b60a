package main

import (
	"os"

	"github.com/nbwedev/phil-iri/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
