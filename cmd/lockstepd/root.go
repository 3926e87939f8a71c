package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/app"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/store/bolt"
	"github.com/lockstep-io/lockstep/x"
	"github.com/lockstep-io/lockstep/x/vault"
)

const (
	flagHome     = "home"
	flagLogLevel = "log-level"
	flagSigner   = "signer"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lockstepd",
		Short:        "Operate a local M-of-N wallet store",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String(flagHome, ".lockstepd", "directory holding the database")
	cmd.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String(flagSigner, "", "condition acting as the caller, ext/type/HEXDATA")

	viper.SetEnvPrefix("LOCKSTEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, f := range []string{flagHome, flagLogLevel, flagSigner} {
		if err := viper.BindPFlag(f, cmd.PersistentFlags().Lookup(f)); err != nil {
			panic(err)
		}
	}

	cmd.AddCommand(
		createWalletCmd(),
		proposeCmd(),
		approveCmd(),
		executeCmd(),
		showCmd(),
	)
	return cmd
}

// env bundles everything a command needs to run against the store.
type env struct {
	db     *bolt.Store
	app    *app.App
	logger *zap.Logger
	signer lockstep.Condition
}

func (e *env) close() {
	_ = e.logger.Sync()
	if err := e.db.Close(); err != nil {
		e.logger.Error("closing database", zap.Error(err))
	}
}

func newEnv(requireSigner bool) (*env, error) {
	logger, err := newLogger(viper.GetString(flagLogLevel))
	if err != nil {
		return nil, errors.Wrap(err, "logger")
	}

	var signer lockstep.Condition
	if raw := viper.GetString(flagSigner); raw != "" {
		signer, err = parseCondition(raw)
		if err != nil {
			return nil, errors.Wrap(err, "signer")
		}
	} else if requireSigner {
		return nil, errors.Wrap(errors.ErrInput, "a --signer is required")
	}

	db, err := bolt.Open(viper.GetString(flagHome), "lockstep")
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	auth := &signerAuth{}
	if signer != nil {
		auth.conds = []lockstep.Condition{signer}
	}

	r := app.NewRouter()
	vault.RegisterRoutes(r, auth, vault.LogExecutor())
	handler := app.ChainDecorators(
		app.NewRecovery(),
		app.NewLogging(),
	).WithHandler(r)

	return &env{
		db:     db,
		app:    app.New(db, handler, logger),
		logger: logger,
		signer: signer,
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// signerAuth authenticates the conditions configured on the command
// line. No signature verification happens here: the CLI is a local,
// single-operator surface.
type signerAuth struct {
	conds []lockstep.Condition
}

var _ x.Authenticator = (*signerAuth)(nil)

func (a *signerAuth) GetConditions(lockstep.Context) []lockstep.Condition {
	return a.conds
}

func (a *signerAuth) HasAddress(ctx lockstep.Context, addr lockstep.Address) bool {
	for _, c := range a.conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
