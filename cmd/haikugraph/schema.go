package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hanpama/haikugraph/internal/entity"
	"github.com/hanpama/haikugraph/internal/schema"
)

func newSchemaCmd() *subCommand {
	sc := &subCommand{Conf: viper.New()}
	sc.Cmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL schema served",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := schema.BuildFromSDL("schema.graphql", entity.SDL)
			if err != nil {
				return errors.Wrap(err, "build schema")
			}
			sdl := schema.Render(sch)
			out := sc.Conf.GetString("out")
			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), sdl)
				return nil
			}
			return os.WriteFile(out, []byte(sdl), 0644)
		},
	}
	sc.Cmd.Flags().String("out", "", "Write the schema to this file instead of stdout.")
	return sc
}
