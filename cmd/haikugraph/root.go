package main

import (
	goflag "flag"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding flags, e.g.
// HAIKUGRAPH_QUERY_TIMEOUT for --query_timeout.
const EnvPrefix = "HAIKUGRAPH"

// subCommand is a command together with the configuration its flags,
// environment and config file resolve into.
type subCommand struct {
	Cmd  *cobra.Command
	Conf *viper.Viper
}

func init() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "haikugraph",
		Short: "haikugraph: GraphQL over the haiku bot's Dgraph store",
		Long: `
haikugraph answers GraphQL queries about haikus, the Discord users, channels
and servers they were posted in, and people, by compiling each root field into
a single DQL query against Dgraph.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")

	subcommands := []*subCommand{newServeCmd(), newCompileCmd(), newSchemaCmd()}
	for _, sc := range subcommands {
		root.AddCommand(sc.Cmd)
		_ = sc.Conf.BindPFlags(sc.Cmd.Flags())
		_ = sc.Conf.BindPFlags(root.PersistentFlags())
		sc.Conf.SetEnvPrefix(EnvPrefix)
		sc.Conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
		sc.Conf.AutomaticEnv()
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, _ := cmd.Flags().GetString("config")
		if cfg == "" {
			return nil
		}
		for _, sc := range subcommands {
			sc.Conf.SetConfigFile(cfg)
			if err := sc.Conf.ReadInConfig(); err != nil {
				return errors.Wrapf(err, "reading config %s", cfg)
			}
		}
		return nil
	}
	return root
}
