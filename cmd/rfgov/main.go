package main

import (
	"fmt"
	"os"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
