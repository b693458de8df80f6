package main

import (
	"os"

	"github.com/lxiaocode/SVNTools/cmd/svntools/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
