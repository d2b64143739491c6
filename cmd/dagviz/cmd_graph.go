package main

import (
	"fmt"
	"io"
	"os"

	"github.com/odvcencio/dagviz/pkg/gateway"
	"github.com/odvcencio/dagviz/pkg/graph"
	"github.com/spf13/cobra"
)

// storeOptions are the flags every walking command shares.
type storeOptions struct {
	backend string
	config  string
	store   string
	dir     string
}

func (o *storeOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.backend, "backend", "", "store backend: git, proto, protox, or a configured name")
	cmd.Flags().StringVar(&o.config, "config", "", "path to a backend config file (TOML)")
	cmd.Flags().StringVar(&o.store, "store", "", "read objects and refs directly from this store directory instead of shelling out")
	cmd.Flags().StringVarP(&o.dir, "dir", "C", ".", "run backend commands in this directory")
}

// open builds the gateway and root resolver the options describe.
func (o *storeOptions) open() (gateway.Gateway, gateway.RootResolver, error) {
	if o.store != "" {
		ls, err := gateway.NewLooseStore(o.store)
		if err != nil {
			return nil, nil, err
		}
		return ls, ls, nil
	}
	cfg, err := gateway.LoadConfig(o.config)
	if err != nil {
		return nil, nil, err
	}
	backend, err := cfg.Select(o.backend)
	if err != nil {
		return nil, nil, err
	}
	cli := gateway.NewCLI(backend, o.dir)
	return cli, cli, nil
}

func newGraphCmd() *cobra.Command {
	var opts storeOptions
	var outputPath string

	cmd := &cobra.Command{
		Use:   "graph [ref...]",
		Short: "Walk the object graph from refs and print Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, resolver, err := opts.open()
			if err != nil {
				return err
			}

			roots, err := resolver.ResolveRoots(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("resolve roots: %w", err)
			}

			snap, err := graph.New(gw).Walk(cmd.Context(), roots)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			_, err = io.WriteString(out, graph.RenderDOT(snap))
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write DOT to this file instead of stdout")
	return cmd
}
