package main

import (
	"fmt"
	"os"

	"github.com/cognicore/concord/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "concord:", err)
		os.Exit(1)
	}
}
