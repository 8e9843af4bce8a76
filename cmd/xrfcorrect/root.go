package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-xrf/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries state shared by the subcommands of one invocation.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: log.New()}

	root := &cobra.Command{
		Use:   "xrfcorrect",
		Short: "XRF spectrum background correction",
		Long: `xrfcorrect removes pulse pile-up, the SNIP continuum background and the
polycapillary background from energy-dispersive XRF spectra, and lists
peaks found with a top-hat filter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "",
		"config file (default is ./xrfcorrect.yaml or $XDG_CONFIG_HOME/xrfcorrect/xrfcorrect.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newCorrectCmd(a), newPeaksCmd(a), newVersionCmd())
	return root
}

// init loads the configuration and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	a.logger.SetLevel(cfg.Level())
	if used := v.ConfigFileUsed(); used != "" {
		a.logger.WithField("file", used).Debug("using config file")
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "xrfcorrect %s\n", version)
			return err
		},
	}
}
