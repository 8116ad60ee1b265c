package main

import (
	"os"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"

	"github.com/rackn/gopal/caltime"
	"github.com/rackn/gopal/config"
)

var log = logging.MustGetLogger("gopal")

var (
	cfgFile  string
	format   string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gopal",
	Short: "Platform inventory and calendar time tool",
	Long: `gopal gathers an inventory of the host it runs on (system, DMI,
network, storage and processes) and works with calendar times in ISO 8601
and CIM DATETIME form.

Configuration is read from --config, ./gopal.conf or /etc/gopal/gopal.conf.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	logging.SetFormatter(logging.MustStringFormatter("%{color}%{shortfile} ▶%{color:reset} %{message}"))
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "output format: json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: DEBUG, INFO, NOTICE, WARNING, ERROR or CRITICAL")
}

// setup loads the configuration once, lets the flags override it and
// installs the log backend.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if format != "" {
		c.Output.Format = format
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(c.LogLevel(), "")
	logging.SetBackend(leveled)
	if locale := c.Locale(); locale != "" {
		if os.Getenv("LC_ALL") != "" {
			log.Warningf("LC_ALL is set and overrides the configured time locale %s", locale)
		}
		os.Setenv("LC_TIME", locale)
		caltime.SetTimeLocale(locale)
	}
	cfg = c
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
