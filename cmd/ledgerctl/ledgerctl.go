// Copyright (c) 2018 The learn-blockchain developers

package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/aronisstav/learn-blockchain/core/types"
	_ "github.com/aronisstav/learn-blockchain/database/badgerdb"
	_ "github.com/aronisstav/learn-blockchain/database/bdb"
	_ "github.com/aronisstav/learn-blockchain/database/ldb"
	"github.com/aronisstav/learn-blockchain/log"
	ver "github.com/aronisstav/learn-blockchain/version"
	"github.com/urfave/cli/v2"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	debug.SetGCPercent(20)
	if err := ledgerCtl(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func ledgerCtl() error {
	cfg := &Config{}
	node := &Node{}

	app := &cli.App{
		Name:    "ledgerctl",
		Version: ver.String(),
		Authors: []*cli.Author{
			{
				Name: "The learn-blockchain developers",
			},
		},
		Copyright: "(c) 2018 The learn-blockchain developers",
		Usage:     "Inspect and extend the local ledger",
		Commands: []*cli.Command{
			{
				Name:        "add",
				Aliases:     []string{"a"},
				Category:    "Ledger",
				Usage:       "Add a batch of transactions as a new block",
				Description: "Validate the given transactions against the current balances and attach them as a new block",
				ArgsUsage:   "<from> <to> <amount> [<from> <to> <amount>]...",
				Before: func(c *cli.Context) error {
					return node.init(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					entries, err := parseEntries(c.Args().Slice())
					if err != nil {
						return err
					}
					return node.Add(entries)
				},
			},
			{
				Name:        "mint",
				Aliases:     []string{"m"},
				Category:    "Ledger",
				Usage:       "Mint new funds to an address",
				Description: "Attach a block with a single transaction from the mint address",
				ArgsUsage:   "<to> <amount>",
				Before: func(c *cli.Context) error {
					return node.init(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("mint expects <to> <amount>")
					}
					amount, err := strconv.ParseInt(c.Args().Get(1), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid amount '%s': %v",
							c.Args().Get(1), err)
					}
					tx := types.NewMintTransaction(
						types.Address(c.Args().Get(0)), amount)
					return node.Add([]*types.Transaction{tx})
				},
			},
			{
				Name:        "balance",
				Category:    "Ledger",
				Usage:       "Show the balance of one address",
				Description: "Replay the chain and report the balance of the given address",
				ArgsUsage:   "<address>",
				Before: func(c *cli.Context) error {
					return node.init(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("balance expects <address>")
					}
					return node.Balance(types.Address(c.Args().Get(0)))
				},
			},
			{
				Name:        "balances",
				Aliases:     []string{"b"},
				Category:    "Ledger",
				Usage:       "Show the balances of all addresses seen on the chain",
				Description: "Replay the chain and report every address it mentions",
				Before: func(c *cli.Context) error {
					return node.init(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					return node.Balances()
				},
			},
			{
				Name:        "tip",
				Aliases:     []string{"t"},
				Category:    "Ledger",
				Usage:       "Show the latest block header",
				Description: "Report the order, hash, parent and miner of the chain tip",
				Before: func(c *cli.Context) error {
					return node.init(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					return node.Tip()
				},
			},
			{
				Name:        "verify",
				Aliases:     []string{"v"},
				Category:    "Ledger",
				Usage:       "Verify the stored block chain",
				Description: "Recompute every block hash and parent link and report the first violation",
				Before: func(c *cli.Context) error {
					return node.init(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					return node.Verify()
				},
			},
			{
				Name:        "export",
				Aliases:     []string{"e"},
				Category:    "Archive",
				Usage:       "Export all blocks from the database",
				Description: "Write the whole chain to a flat archive file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "path",
						Aliases:     []string{"p"},
						Usage:       "Path to output data",
						Value:       defaultHomeDir,
						Destination: &cfg.OutputPath,
					},
				},
				Before: func(c *cli.Context) error {
					return node.init(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					return node.Export()
				},
			},
			{
				Name:        "import",
				Aliases:     []string{"i"},
				Category:    "Archive",
				Usage:       "Import all blocks from an archive file",
				Description: "Load a chain archive into an empty database and verify it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "path",
						Aliases:     []string{"p"},
						Usage:       "Path to input data",
						Value:       defaultHomeDir,
						Destination: &cfg.InputPath,
					},
				},
				Before: func(c *cli.Context) error {
					return node.initDB(cfg)
				},
				After: func(c *cli.Context) error {
					return node.exit()
				},
				Action: func(c *cli.Context) error {
					return node.Import()
				},
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "appdata",
				Aliases:     []string{"A"},
				Usage:       "Path to application home directory",
				Value:       defaultHomeDir,
				Destination: &cfg.HomeDir,
			},
			&cli.StringFlag{
				Name:        "datadir",
				Aliases:     []string{"b"},
				Usage:       "Directory to store data",
				Value:       defaultDataDir,
				Destination: &cfg.DataDir,
			},
			&cli.StringFlag{
				Name:        "dbtype",
				Usage:       "Database backend to use for the Block Chain",
				Value:       defaultDbType,
				Destination: &cfg.DbType,
			},
			&cli.StringFlag{
				Name:        "miner",
				Usage:       "Address credited with the blocks this tool attaches",
				Value:       defaultMiner,
				Destination: &cfg.Miner,
			},
			&cli.StringFlag{
				Name:        "debuglevel",
				Aliases:     []string{"d"},
				Usage:       "Logging level {trace, debug, info, warn, error, critical}",
				Value:       defaultLogLevel,
				Destination: &cfg.DebugLevel,
			},
			&cli.BoolFlag{
				Name:        "disablebar",
				Usage:       "Hide progress bar",
				Value:       false,
				Destination: &cfg.DisableBar,
			},
		},
		EnableBashCompletion: true,
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
	}

	return app.Run(os.Args)
}

// parseEntries turns positional <from> <to> <amount> triples into a
// transaction batch.
func parseEntries(args []string) ([]*types.Transaction, error) {
	if len(args) == 0 || len(args)%3 != 0 {
		return nil, fmt.Errorf("add expects one or more <from> <to> <amount> triples")
	}
	entries := make([]*types.Transaction, 0, len(args)/3)
	for i := 0; i < len(args); i += 3 {
		amount, err := strconv.ParseInt(args[i+2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount '%s': %v", args[i+2], err)
		}
		entries = append(entries, types.NewTransaction(
			types.Address(args[i]), types.Address(args[i+1]), amount))
	}
	return entries, nil
}
