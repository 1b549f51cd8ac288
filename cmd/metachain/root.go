package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/metachain/chain"
	"github.com/bitfsorg/metachain/codec"
	"github.com/bitfsorg/metachain/config"
	"github.com/bitfsorg/metachain/journal"
	"github.com/bitfsorg/metachain/network"
)

// encodingAuto asks the reader to try every codec family.
const encodingAuto = "auto"

// app holds the flags and the state shared by all commands.
type app struct {
	// Global flags
	dataDir     string
	encoding    string
	networkName string
	mainnet     bool
	rpc         network.RPCConfig
	logLevel    string
	logFile     string

	// Shared state set during PersistentPreRunE
	cfg     config.Config
	rpcCfg  *network.RPCConfig
	node    network.NodeService
	newNode func(network.RPCConfig) network.NodeService
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "metachain",
		Short: "Build and read chains of Metanet records",
		Long: `Metachain publishes linked Metanet node records in OP_RETURN outputs
through a node's JSON-RPC wallet, and decodes them back from transactions.
Each record is framed behind the ASCII flag "meta" and encoded as cbor,
bson or msgpack.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dataDir, "datadir", config.DefaultDataDir(), "directory holding the config file and journal")
	pf.StringVarP(&a.encoding, "encoding", "e", "", "record encoding: cbor, bson or msgpack (read and walk also accept auto)")
	pf.StringVar(&a.networkName, "network", "", "network: mainnet, testnet or regtest")
	pf.BoolVar(&a.mainnet, "mainnet", false, "use mainnet (shorthand for --network mainnet)")
	pf.StringVar(&a.rpc.URL, "rpc-url", "", "node RPC URL (default from network preset)")
	pf.StringVarP(&a.rpc.User, "user", "u", "", "node RPC user")
	pf.StringVarP(&a.rpc.Password, "password", "p", "", "node RPC password")
	pf.StringVar(&a.logLevel, "loglevel", "", "log level: trace, debug, info, warn, error, critical, off")
	pf.StringVar(&a.logFile, "logfile", "", "also write logs to this file, with rotation")

	root.AddCommand(newBuildCmd(a), newReadCmd(a), newWalkCmd(a), newJournalCmd(a))
	return root
}

// setup loads the config file, applies flag overrides, starts logging and
// resolves the node connection.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(config.ConfigPath(a.dataDir))
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		cfg = config.DefaultConfig()
	case err != nil:
		return err
	}
	cfg.DataDir = a.dataDir

	flags := cmd.Flags()
	if a.mainnet {
		cfg.Network = "mainnet"
	} else if flags.Changed("network") {
		cfg.Network = a.networkName
	}
	if a.encoding != "" && !strings.EqualFold(a.encoding, encodingAuto) {
		cfg.Encoding = a.encoding
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	logOutput = cmd.ErrOrStderr()
	if cfg.LogFile != "" && logRotator == nil {
		if err := initLogRotator(cfg.LogFile); err != nil {
			return err
		}
	}
	setLogLevels(cfg.LogLevel)

	flagRPC := a.rpc
	if flagRPC.URL == "" {
		flagRPC.URL = cfg.RPCURL
	}
	if flagRPC.User == "" {
		flagRPC.User = cfg.RPCUser
	}
	if flagRPC.Password == "" {
		flagRPC.Password = cfg.RPCPass
	}
	rpcCfg, err := network.ResolveConfig(&flagRPC, network.EnvConfig(), cfg.Network)
	if err != nil {
		return err
	}
	a.rpcCfg = rpcCfg
	mainLog.Debugf("Network %s, node %s, encoding %s", cfg.Network, rpcCfg.URL, cfg.Encoding)
	return nil
}

// nodeService returns the node client, connecting on first use.
func (a *app) nodeService() network.NodeService {
	if a.node == nil {
		a.node = a.newNode(*a.rpcCfg)
	}
	return a.node
}

func (a *app) recordCodec() (codec.Codec, error) {
	f, err := codec.ParseFamily(a.cfg.Encoding)
	if err != nil {
		return nil, err
	}
	return codec.New(f)
}

// reader returns a chain reader honouring "-e auto".
func (a *app) reader() (*chain.Reader, error) {
	rc := chain.ReaderConfig{Fetcher: a.nodeService()}
	if strings.EqualFold(a.encoding, encodingAuto) {
		rc.AutoDetect = true
	} else {
		c, err := a.recordCodec()
		if err != nil {
			return nil, err
		}
		rc.Codec = c
	}
	return chain.NewReader(rc)
}

func (a *app) openJournal() (*journal.Journal, error) {
	j, err := journal.Open(filepath.Join(a.cfg.DataDir, journal.DefaultFileName))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}
