package main

import (
	"os"

	"github.com/lambdaclass/merkle-tree-service/version"
	"github.com/urfave/cli/v2"
)

func versionCmd(*cli.Context) error {
	version.PrintVersion(os.Stdout)
	return nil
}
