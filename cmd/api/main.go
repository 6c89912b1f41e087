package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/photon-storage/go-common/log"

	"github.com/riskless-finance/riskless/api/server"
	"github.com/riskless-finance/riskless/api/service"
	"github.com/riskless-finance/riskless/cmd"
	"github.com/riskless-finance/riskless/cmd/runtime/version"
	"github.com/riskless-finance/riskless/config"
	"github.com/riskless-finance/riskless/contract/factory"
	"github.com/riskless-finance/riskless/contract/project"
	"github.com/riskless-finance/riskless/database/mysql"
	"github.com/riskless-finance/riskless/host"
	"github.com/riskless-finance/riskless/ledger/gormkv"
	"github.com/riskless-finance/riskless/moneymarket"
)

func main() {
	app := cli.App{
		Name:    "riskless-api",
		Usage:   "serves the riskless crowdfunding ledger over HTTP",
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
		log.Error("running api application failed", "error", err)
	}
}

// Config defines the config for api service.
type Config struct {
	Port    int           `yaml:"port" validate:"required"`
	MySQL   mysql.Config  `yaml:"mysql" validate:"required"`
	Factory FactoryConfig `yaml:"factory" validate:"required"`
}

// FactoryConfig locates or bootstraps the factory instance.
type FactoryConfig struct {
	// Address of an existing factory instance. Leave empty to
	// instantiate a new one at startup.
	Address string `yaml:"address"`

	Admin                    string `yaml:"admin" validate:"required"`
	ProjectCodeID            string `yaml:"project_code_id" validate:"required"`
	AnchorMoneyMarketAddress string `yaml:"anchor_money_market_address" validate:"required"`
	AUstAddress              string `yaml:"a_ust_address" validate:"required"`
}

func exec(ctx *cli.Context) error {
	cfg := &Config{}
	if err := config.Load(ctx.String(cmd.ConfigPathFlag.Name), cfg); err != nil {
		log.Fatal("reading api config failed", "error", err)
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
	h.Register(cfg.Factory.ProjectCodeID, project.New(moneymarket.Noop{}))

	factoryAddr, err := ensureFactory(ctx.Context, h, cfg.Factory)
	if err != nil {
		log.Fatal("bootstrap factory failed", "error", err)
	}
	log.Info("factory ready", "address", factoryAddr)

	server.New(cfg.Port, service.New(h, factoryAddr)).Run()
	return nil
}

// ensureFactory verifies the configured factory address or, when none
// is configured, instantiates a fresh factory.
func ensureFactory(
	ctx context.Context,
	h *host.Host,
	cfg FactoryConfig,
) (string, error) {
	if cfg.Address != "" {
		if _, err := h.Lookup(ctx, cfg.Address); err != nil {
			return "", err
		}

		return cfg.Address, nil
	}

	return h.Instantiate(ctx, "factory", cfg.Admin, &factory.InstantiateMsg{
		ProjectCodeID:            cfg.ProjectCodeID,
		AnchorMoneyMarketAddress: &cfg.AnchorMoneyMarketAddress,
		AUstAddress:              &cfg.AUstAddress,
	})
}
