package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/stylevault/stylevault/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrAlreadyReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
