package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hanpama/haikugraph/internal/dgraphrt"
	"github.com/hanpama/haikugraph/internal/entity"
	"github.com/hanpama/haikugraph/internal/executor"
	"github.com/hanpama/haikugraph/internal/language"
	"github.com/hanpama/haikugraph/internal/schema"
)

func newCompileCmd() *subCommand {
	sc := &subCommand{Conf: viper.New()}
	sc.Cmd = &cobra.Command{
		Use:   "compile [file]",
		Short: "Print the DQL each root field of a GraphQL query runs",
		Long: `
compile reads a GraphQL query from file, or from stdin when no file is given,
and prints the DQL query every Dgraph backed root field compiles to. Fields
that cannot be compiled print the error a client would receive.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src := "stdin", cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				name, src = args[0], f
			}
			b, err := io.ReadAll(src)
			if err != nil {
				return errors.Wrapf(err, "reading %s", name)
			}
			return runCompile(cmd.OutOrStdout(), sc.Conf, name, string(b))
		},
	}

	f := sc.Cmd.Flags()
	f.String("operation", "", "Operation to compile when the document has several.")
	f.String("variables", "", "Variable values as a JSON object.")
	return sc
}

func runCompile(w io.Writer, conf *viper.Viper, name, source string) error {
	sch, err := schema.BuildFromSDL("schema.graphql", entity.SDL)
	if err != nil {
		return errors.Wrap(err, "build schema")
	}
	doc, err := language.ParseNamedQuery(name, source)
	if err != nil {
		return err
	}
	vars := map[string]any{}
	if raw := conf.GetString("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &vars); err != nil {
			return errors.Wrap(err, "parsing --variables")
		}
	}
	roots, err := executor.Lookahead(sch, doc, conf.GetString("operation"), vars)
	if err != nil {
		return err
	}

	rt := dgraphrt.New(nil, sch)
	var failed int
	for _, sel := range roots {
		fmt.Fprintf(w, "# %s\n", sel.ResponseName())
		q, err := rt.Compile(sel)
		if err != nil {
			failed++
			out := map[string]any{"message": err.Error()}
			if ext, ok := err.(interface{ Extensions() map[string]any }); ok {
				out["extensions"] = ext.Extensions()
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(w, q.Text)
		if len(q.Vars) > 0 {
			b, err := json.Marshal(q.Vars)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "# vars: %s\n", b)
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d root fields failed to compile", failed, len(roots))
	}
	return nil
}
