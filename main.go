package main

import (
	"os"

	"github.com/abp-cli/abp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
