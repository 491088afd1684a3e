package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/microfy/analyzer"
	"github.com/viant/microfy/analyzer/python"
	"github.com/viant/microfy/analyzer/repository"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		configURL string
		output    string
		targets   []string
	)
	cmd := &cobra.Command{
		Use:   "analyze <repository>",
		Short: "Statically analyze a Python repository and emit its dependency registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var opts []analyzer.Option
			if configURL != "" {
				config, err := repository.LoadConfig(ctx, configURL)
				if err != nil {
					return err
				}
				opts = append(opts, analyzer.WithScanConfig(config))
			}
			if len(targets) > 0 {
				opts = append(opts, analyzer.WithTracerOptions(python.WithTargetFunctions(targets...)))
			}
			repoAnalyzer := analyzer.NewRepoAnalyzer(opts...)
			result, err := repoAnalyzer.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := python.MarshalRegistry(result.Registry)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d symbols to %s (%d files skipped)\n",
				len(result.Registry), output, len(result.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVar(&configURL, "config", "", "YAML scan configuration")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&targets, "targets", nil, "function names to flag for extraction")
	return cmd
}
