package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/photon-storage/go-common/log"

	"github.com/riskless-finance/riskless/cmd"
	"github.com/riskless-finance/riskless/cmd/runtime/version"
	"github.com/riskless-finance/riskless/config"
	"github.com/riskless-finance/riskless/contract/factory"
	"github.com/riskless-finance/riskless/contract/project"
	"github.com/riskless-finance/riskless/database/mysql"
	"github.com/riskless-finance/riskless/host"
	"github.com/riskless-finance/riskless/ledger/gormkv"
	"github.com/riskless-finance/riskless/moneymarket"
	"github.com/riskless-finance/riskless/monitor"
)

func main() {
	app := cli.App{
		Name:    "riskless-monitor",
		Usage:   "evaluates project fund deadlines against the ledger",
		Action:  exec,
		Version: version.Get(),
		Flags: []cli.Flag{
			cmd.ConfigPathFlag,
			cmd.VerbosityFlag,
			cmd.LogFormatFlag,
		},
	}

	app.Before = func(ctx *cli.Context) error {
		logLvl, err := log.ParseLevel(ctx.String(cmd.VerbosityFlag.Name))
		if err != nil {
			return err
		}

		logFmt, err := log.ParseFormat(ctx.String(cmd.LogFormatFlag.Name))
		if err != nil {
			return err
		}

		return log.Init(logLvl, logFmt)
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("running monitor application failed", "error", err)
	}
}

// Config defines the config for the deadline monitor.
type Config struct {
	MySQL           mysql.Config `yaml:"mysql" validate:"required"`
	RefreshInterval uint64       `yaml:"refresh_interval" validate:"required"`
	FactoryAddress  string       `yaml:"factory_address" validate:"required"`
	ProjectCodeID   string       `yaml:"project_code_id" validate:"required"`
	Sender          string       `yaml:"sender" validate:"required"`
}

func exec(ctx *cli.Context) error {
	cfg := &Config{}
	if err := config.Load(ctx.String(cmd.ConfigPathFlag.Name), cfg); err != nil {
		log.Fatal("reading monitor config failed", "error", err)
	}

	db, err := mysql.New(cfg.MySQL)
	if err != nil {
		log.Fatal("initialize mysql db error", "error", err)
	}

	ldb, err := gormkv.New(db)
	if err != nil {
		log.Fatal("initialize ledger db error", "error", err)
	}

	h := host.New(ldb)
	h.Register("factory", factory.New())
	h.Register(cfg.ProjectCodeID, project.New(moneymarket.Noop{}))

	if _, err := h.Lookup(ctx.Context, cfg.FactoryAddress); err != nil {
		log.Fatal("factory lookup failed",
			"address", cfg.FactoryAddress,
			"error", err,
		)
	}

	m, err := monitor.New(
		h,
		cfg.FactoryAddress,
		cfg.Sender,
		time.Duration(cfg.RefreshInterval)*time.Second,
	)
	if err != nil {
		log.Fatal("initialize monitor error", "error", err)
	}

	if err := m.Start(); err != nil {
		log.Fatal("start monitor error", "error", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	<-sigc
	log.Info("Got interrupt, shutting down...")

	return m.Stop()
}
