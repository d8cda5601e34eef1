package main

import (
	"os"

	"github.com/lambdaclass/merkle-tree-service/config"
	"github.com/lambdaclass/merkle-tree-service/log"
	"github.com/lambdaclass/merkle-tree-service/version"
	"github.com/urfave/cli/v2"
)

const appName = "merkle-tree-service"

var (
	configFileFlag = cli.StringSliceFlag{
		Name:     config.FlagCfg,
		Aliases:  []string{"c"},
		Usage:    "Configuration file(s)",
		Required: false,
	}
	saveConfigFlag = cli.StringFlag{
		Name:     config.FlagSaveConfigPath,
		Aliases:  []string{"s"},
		Usage:    "Save final configuration into the indicated path (name: " + config.SaveConfigFileName + ")",
		Required: false,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Version = version.Version

	app.Commands = []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{},
			Usage:   "Application version and build",
			Action:  versionCmd,
		},
		{
			Name:    "config",
			Aliases: []string{},
			Usage:   "Dump the default configuration",
			Action:  configCmd,
		},
		{
			Name:    "run",
			Aliases: []string{},
			Usage:   "Run the merkle tree service",
			Action:  start,
			Flags:   []cli.Flag{&configFileFlag, &saveConfigFlag},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
		os.Exit(1)
	}
}
