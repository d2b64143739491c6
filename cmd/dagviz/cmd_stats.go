package main

import (
	"fmt"

	"github.com/odvcencio/dagviz/pkg/graph"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var opts storeOptions

	cmd := &cobra.Command{
		Use:   "stats [ref...]",
		Short: "Walk the object graph and report sharing statistics",
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

			st := snap.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "roots:    %d\n", len(roots))
			fmt.Fprintf(out, "objects:  %d unique, %d arrival(s), %d duplicate arrival(s) skipped\n",
				st.Objects, st.Arrivals, st.Duplicates())
			fmt.Fprintf(out, "commits:  %d\n", st.Commits)
			fmt.Fprintf(out, "trees:    %d\n", st.Trees)
			fmt.Fprintf(out, "chunked:  %d\n", st.ChunkIndexes)
			fmt.Fprintf(out, "blobs:    %d\n", st.Blobs)
			if st.Unknown > 0 {
				fmt.Fprintf(out, "unknown:  %d\n", st.Unknown)
			}
			fmt.Fprintf(out, "refs:     %d\n", st.Refs)
			fmt.Fprintf(out, "edges:    %d\n", st.Edges)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}
