package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jasperpeeters/nmos-node/pkg/nmosnode"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("nmosnode %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := newFlagSet("run")
	cfgPath := fs.String("config", "./config.yaml", "Path to node configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := nmosnode.LoadSettings(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	node, err := nmosnode.New(settings)
	if err != nil {
		return fmt.Errorf("build node: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := node.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func validateCommand(args []string) error {
	fs := newFlagSet("validate")
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := nmosnode.LoadSettings(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func printUsage() {
	fmt.Print(`nmosnode CLI

Usage:
  nmosnode <command> [flags]

Commands:
  run        Start the node behaviour engine using the provided config
  validate   Load and validate a config file without starting the engine

Examples:
  nmosnode run -config ./config.yaml
  nmosnode validate -config ./config.yaml
`)
}
