package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/microfy/trace"
)

func newGraphCommand() *cobra.Command {
	var (
		tracesURL string
		backend   string
		service   string
		apiConfig string
		format    string
		output    string
		window    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build a service call graph from distributed traces",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (tracesURL == "") == (backend == "") {
				return fmt.Errorf("exactly one of --traces or --backend is required")
			}
			var opts []trace.Option
			if apiConfig != "" {
				config, err := trace.LoadAPIConfig(ctx, apiConfig)
				if err != nil {
					return err
				}
				opts = append(opts, trace.WithAPIConfig(config))
			}
			var (
				traces []trace.Trace
				err    error
			)
			if tracesURL != "" {
				traces, err = trace.LoadTraces(ctx, tracesURL)
			} else {
				collector := trace.NewCollector(backend, trace.WithWindow(window))
				traces, err = collector.TracesByServiceName(ctx, service)
			}
			if err != nil {
				return err
			}
			builder := trace.NewBuilder(opts...)
			g := builder.Build(traces)

			out, err := os.Create(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if err := g.Export(out, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s graph with %d nodes, %d edges to %s\n",
				format, g.NodeCount(), g.EdgeCount(), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&tracesURL, "traces", "", "JSON trace dump")
	cmd.Flags().StringVar(&backend, "backend", "", "SkyWalking GraphQL endpoint")
	cmd.Flags().StringVar(&service, "service", "", "service name when querying a backend")
	cmd.Flags().DurationVar(&window, "window", 10*time.Minute, "how far back to query traces")
	cmd.Flags().StringVar(&apiConfig, "api-config", "", "JSON endpoint pattern config")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "graphml, gexf, gml or json")
	cmd.Flags().StringVarP(&output, "out", "o", "graph.json", "output file")
	return cmd
}
