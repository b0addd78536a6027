package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	golog "github.com/textileio/go-log/v2"
	cmdcommon "github.com/textileio/tender-core/cmd/common"
	"github.com/textileio/tender-core/cmd/tenderd/service"
	"github.com/textileio/tender-core/logging"
)

var (
	daemonName = "tenderd"
	log        = golog.Logger(daemonName)
	v          = viper.New()
)

func init() {
	flags := []cmdcommon.Flag{
		{Name: "http-addr", DefValue: ":8888", Description: "HTTP API listen address"},
		{Name: "postgres-uri", DefValue: "", Description: "PostgreSQL URI; the tender is kept in memory if empty"},
		{Name: "admin-address", DefValue: "", Description: "Ethereum address of the tender administrator"},
		{Name: "reveal-end-time", DefValue: "", Description: "Reveal deadline in RFC3339"},
		{Name: "reveal-duration", DefValue: time.Hour * 24, Description: "Reveal deadline from now, used if reveal-end-time is empty"},
		{Name: "token-audience", DefValue: "tenderd", Description: "Audience required in bearer tokens"},
		{Name: "token-max-ttl", DefValue: time.Hour, Description: "Longest accepted bearer token lifetime"},
		{Name: "metrics-addr", DefValue: ":9090", Description: "Prometheus listen address"},
		{Name: "log-debug", DefValue: false, Description: "Enable debug level logging"},
		{Name: "log-json", DefValue: false, Description: "Enable structured logging"},
	}

	cmdcommon.ConfigureCLI(v, "TENDER", flags, rootCmd.Flags())
}

var rootCmd = &cobra.Command{
	Use:   daemonName,
	Short: "tenderd runs a sealed-bid procurement auction",
	Long:  `tenderd runs a sealed-bid procurement auction with a commit-reveal scheme`,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		cmdcommon.ExpandEnvVars(v, v.AllSettings())
		err := cmdcommon.ConfigureLogging(v, logging.Loggers)
		cmdcommon.CheckErrf("setting log levels: %v", err)
	},
	Run: func(c *cobra.Command, args []string) {
		now := time.Now()

		admin := v.GetString("admin-address")
		if !common.IsHexAddress(admin) {
			cmdcommon.CheckErr(fmt.Errorf("admin-address %q isn't an ethereum address", admin))
		}
		revealEndTime, err := revealEndTime(v, now)
		cmdcommon.CheckErrf("parsing reveal end time: %v", err)

		err = cmdcommon.SetupInstrumentation(v.GetString("metrics-addr"))
		cmdcommon.CheckErrf("booting instrumentation: %v", err)

		serv, err := service.New(context.Background(), service.Config{
			HTTPListenAddr: v.GetString("http-addr"),
			PostgresURI:    v.GetString("postgres-uri"),
			Administrator:  common.HexToAddress(admin),
			RevealEndTime:  revealEndTime,
			Audience:       v.GetString("token-audience"),
			MaxTokenTTL:    v.GetDuration("token-max-ttl"),
		})
		cmdcommon.CheckErrf("starting service: %v", err)

		info := serv.Ledger().Info()
		log.Infof("serving tender in %s phase, reveals close %s (%s)",
			info.Phase, humanize.Time(info.RevealEndTime), info.RevealEndTime.Format(time.RFC3339))

		cmdcommon.HandleInterrupt(func() {
			cmdcommon.CheckErr(serv.Close())
		})
	},
}

func revealEndTime(v *viper.Viper, now time.Time) (time.Time, error) {
	if s := v.GetString("reveal-end-time"); s != "" {
		return time.Parse(time.RFC3339, s)
	}
	d := v.GetDuration("reveal-duration")
	if d <= 0 {
		return time.Time{}, errors.New("reveal-duration must be positive")
	}
	return now.Add(d), nil
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		cmdcommon.CheckErrf("loading .env file: %v", err)
	}
	cmdcommon.CheckErr(rootCmd.Execute())
}
