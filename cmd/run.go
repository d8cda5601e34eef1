package main

import (
	"context"
	"os"
	"os/signal"

	jRPC "github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/lambdaclass/merkle-tree-service/common"
	"github.com/lambdaclass/merkle-tree-service/config"
	"github.com/lambdaclass/merkle-tree-service/log"
	"github.com/lambdaclass/merkle-tree-service/merkletree"
	"github.com/lambdaclass/merkle-tree-service/rpc"
	"github.com/lambdaclass/merkle-tree-service/version"
	"github.com/urfave/cli/v2"
)

func start(cliCtx *cli.Context) error {
	c, err := config.Load(cliCtx)
	if err != nil {
		return err
	}

	log.Init(c.Log)

	if c.Log.Environment == log.EnvironmentDevelopment {
		version.PrintVersion(os.Stdout)
		log.Info("Starting application")
	} else if c.Log.Environment == log.EnvironmentProduction {
		logVersion()
	}

	trees, err := merkletree.NewTreeService(c.MerkleTree, log.WithFields("module", common.TREE_SERVICE))
	if err != nil {
		log.Fatal(err)
	}
	go logNewRoots(trees)

	server := createRPC(c.RPC, trees)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal(err)
		}
	}()

	waitSignal(nil)
	return nil
}

func createRPC(cfg jRPC.Config, trees rpc.TreeServicer) *jRPC.Server {
	logger := log.WithFields("module", common.RPC)
	services := []jRPC.Service{
		{
			Name: rpc.MERKLE,
			Service: rpc.NewMerkleEndpoints(
				logger,
				cfg.WriteTimeout.Duration,
				cfg.ReadTimeout.Duration,
				trees,
			),
		},
	}

	return jRPC.NewServer(cfg, services, jRPC.WithLogger(logger.GetSugaredLogger()))
}

// logNewRoots drains the root notifications so they end up on the logs even
// when nobody else subscribed
func logNewRoots(trees *merkletree.TreeService) {
	sub := trees.Subscribe(appName)
	for root := range sub.NewRoot {
		log.Infof("new tree root: %s", root)
	}
}

func logVersion() {
	log.Infof(
		"version: %s, git revision: %s, go version: %s",
		version.Version, version.GitRev, version.GetVersion().GoVersion,
	)
}

func waitSignal(cancelFuncs []context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	for sig := range signals {
		switch sig {
		case os.Interrupt, os.Kill:
			log.Info("terminating application gracefully...")

			exitStatus := 0
			for _, cancel := range cancelFuncs {
				cancel()
			}
			os.Exit(exitStatus)
		}
	}
}
