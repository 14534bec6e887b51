package main

import (
	"fmt"
	"os"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Player terminated with error: %v\n", err)
	}
	os.Exit(code)
}
