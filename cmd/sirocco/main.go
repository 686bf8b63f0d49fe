package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rimraf-adi.com/sirocco/pkg/registry"
	"rimraf-adi.com/sirocco/pkg/solver"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "sirocco",
	Short: "Sirocco - a PubGrub version resolver",
	Long: `Sirocco resolves a set of version requirements against a catalog of
available package versions using the PubGrub algorithm, producing either one
version per package or an explanation of why no assignment exists.`,
}

var solveCmd = &cobra.Command{
	Use:   "solve [catalog.yaml]",
	Short: "Resolve the requirements in a YAML catalog file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		catalog, requirements, err := registry.LoadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "[sirocco] Error: %v\n", err)
			os.Exit(1)
		}

		result, err := solver.Solve(catalog, requirements, solverOptions()...)
		if err != nil {
			var resolution *solver.ResolutionError
			if errors.As(err, &resolution) {
				fmt.Fprintln(os.Stderr, "[sirocco] No solution found:")
				fmt.Fprintln(os.Stderr, resolution.Error())
			} else {
				fmt.Fprintf(os.Stderr, "[sirocco] Error: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Print(formatSolution(result))
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the unsolvable conflict demonstration",
	Run: func(cmd *cobra.Command, args []string) {
		examples := solver.Examples()
		demo := examples[len(examples)-1]
		if err := demo.Run(os.Stdout, solverOptions()...); err != nil {
			fmt.Fprintf(os.Stderr, "[sirocco] Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Run the bundled example catalogs",
	Run: func(cmd *cobra.Command, args []string) {
		for _, example := range solver.Examples() {
			if err := example.Run(os.Stdout, solverOptions()...); err != nil {
				fmt.Fprintf(os.Stderr, "[sirocco] Error: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

// solverOptions wires the --verbose flag to a debug-level logger
func solverOptions() []solver.Option {
	if !verboseFlag {
		return nil
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.DebugLevel)
	return []solver.Option{solver.WithLogger(logger)}
}

// formatSolution renders a resolved assignment with one package per line,
// sorted by name
func formatSolution(result map[string]string) string {
	names := make([]string, 0, len(result))
	for name := range result {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s %s\n", name, result[name])
	}
	return b.String()
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug tracing")
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(examplesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[sirocco] Error: %v\n", err)
		os.Exit(1)
	}
}
