package main

import (
	"os"

	"github.com/argus-labs/xchain-router/cmd/routerctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
