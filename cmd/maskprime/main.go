// Command maskprime runs masked-priming sessions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/maskprime/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
