// Command tc-cache is the CI build-cache snapshot engine: pull restores
// a previously published cache, push diffs the working tree against it
// and republishes when something changed.
package main

import (
	"fmt"
	"os"

	"github.com/tc-cache/tc-cache/cli"
)

func main() {
	if err := cli.New().Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
