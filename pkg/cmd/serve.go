package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c9s/rbtree/pkg/config"
	"github.com/c9s/rbtree/pkg/server"
	"github.com/c9s/rbtree/pkg/treesvc"
)

func init() {
	ServeCmd.Flags().String("bind", "", "bind address, overrides server.bind of the config file")
	RootCmd.AddCommand(ServeCmd)
}

// go run ./cmd/rbtree serve --config rbtree.yaml --bind :8080
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the tree over http",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		bind, err := cmd.Flags().GetString("bind")
		if err != nil {
			return err
		}

		if bind != "" {
			conf.Server.Bind = bind
		}

		svc := treesvc.New(conf.Tree.Name, treesvc.WithDumpOnMutation(conf.Tree.DumpOnMutation))
		if len(conf.Tree.Preload) > 0 {
			svc.Insert(conf.Tree.Preload...)
			log.Infof("preloaded %d keys into tree %s", len(conf.Tree.Preload), conf.Tree.Name)
		}

		srv, err := server.New(conf.Server, svc)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx)
	},
}

// loadConfig reads the file given by --config or the viper config key,
// the defaults are used when no file is given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if configFile == "" {
		configFile = viper.GetString("config")
	}

	if configFile == "" {
		return config.Default(), nil
	}

	log.Infof("loading config from %s", configFile)
	return config.Load(configFile)
}
