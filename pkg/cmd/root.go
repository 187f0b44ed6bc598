package cmd

import (
	"os"
	"path"
	"strings"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/c9s/rbtree/pkg/envvar"
)

var RootCmd = &cobra.Command{
	Use:   "rbtree",
	Short: "red-black tree playground",
	Long:  "an ordered-key red-black tree with an interactive menu and an http api",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	RootCmd.PersistentFlags().String("config", "", "config file")
	RootCmd.PersistentFlags().String("log-dir", "log", "log directory used in production")
}

func setupLogger() {
	log.SetFormatter(&prefixed.TextFormatter{})

	logger := log.StandardLogger()
	if viper.GetBool("debug") {
		logger.SetLevel(log.DebugLevel)
	}

	environment, _ := envvar.String("RBTREE_ENV", "development")
	switch environment {
	case "production", "prod":
		writer := &lumberjack.Logger{
			Filename:   path.Join(viper.GetString("log-dir"), "rbtree.log"),
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     30, // days
		}

		logger.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					log.DebugLevel: writer,
					log.InfoLevel:  writer,
					log.WarnLevel:  writer,
					log.ErrorLevel: writer,
					log.FatalLevel: writer,
				},
				&log.JSONFormatter{},
			),
		)
	}
}

func Execute() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Error("cannot execute command")
		os.Exit(1)
	}
}
