package main

import (
	"fmt"
	"os"

	"sentimentd/internal/sentimentctl"
)

func main() {
	if err := sentimentctl.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
