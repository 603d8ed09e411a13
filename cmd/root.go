package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// startupParams holds all the flag state plus the logger handles the
// commands write through.
type startupParams struct {
	modelFile   string
	dataFile    string
	traceFile   string
	randomSeed  int64
	verbose     bool
	window      int
	monitorOn   bool
	monitorAddr string
	simCount    int

	out   *log.Logger
	trace *log.Logger
}

// Setup wires the output loggers. The returned cleanup func must be called
// when the command finishes (it closes the trace file if one was opened).
func (sp *startupParams) Setup() (func(), error) {
	sp.out = log.New(os.Stdout, "", 0)

	if len(sp.traceFile) > 0 {
		f, err := os.Create(sp.traceFile)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not create trace file %s", sp.traceFile)
		}
		sp.trace = log.New(f, "", 0)
		return func() { f.Close() }, nil
	}

	if sp.verbose {
		sp.trace = log.New(os.Stderr, "", 0)
	} else {
		sp.trace = log.New(io.Discard, "", 0)
	}

	return func() {}, nil
}

var sp = &startupParams{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logmix",
	Short: "Numerically stable finite mixture density evaluation",
	Long: `logmix evaluates finite mixture distributions with the discrete
component-assignment latent variable summed out. Among other features:

  - A stabilized (log-sum-exp) collapsed mixture log-density
  - Posterior-predictive averaging over parameter draws
  - Component responsibility diagnostics
  - Simulation of observations from a mixture definition
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("logmix\n")
		fmt.Printf("Verbose:  %v\n", sp.verbose)
		fmt.Printf("Model:    %s\n", sp.modelFile)
		fmt.Printf("Data:     %s\n", sp.dataFile)
		fmt.Printf("Rnd Seed: %d\n", sp.randomSeed)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&sp.modelFile, "model", "m", "", "TOML mixture definition file to read")
	rootCmd.PersistentFlags().StringVarP(&sp.dataFile, "data", "d", "", "Observation file to read (whitespace-delimited)")
	rootCmd.PersistentFlags().StringVarP(&sp.traceFile, "trace", "t", "", "Trace file for per-observation output")
	rootCmd.PersistentFlags().Int64VarP(&sp.randomSeed, "seed", "r", 1, "Random seed to use")
	rootCmd.PersistentFlags().BoolVarP(&sp.verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")
	rootCmd.PersistentFlags().IntVarP(&sp.window, "window", "w", 500, "Window size for the split-window drift check")
	rootCmd.PersistentFlags().BoolVar(&sp.monitorOn, "monitor", false, "Serve progress counters over HTTP (expvar)")
	rootCmd.PersistentFlags().StringVar(&sp.monitorAddr, "monitor-addr", ":8000", "Address for the progress monitor")

	rootCmd.MarkPersistentFlagRequired("model")

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate mixture log-density over an observation file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return EvalDensity(sp)
		},
	}

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Posterior-predictive log-density over all draws in the model file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return PosteriorPredict(sp)
		},
	}

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "Simulate observations from the mixture definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Simulate(sp)
		},
	}
	simCmd.Flags().IntVarP(&sp.simCount, "count", "n", 100, "Number of observations to simulate")

	rootCmd.AddCommand(evalCmd, predictCmd, simCmd)

	// Failed commands have already reported their error
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
