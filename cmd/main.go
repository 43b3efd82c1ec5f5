package main

import (
	"fmt"
	"os"

	"github.com/versolve/versolve/cmd/root"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := root.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
