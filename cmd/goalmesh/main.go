package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goalmesh/goalmesh"
	"github.com/goalmesh/goalmesh/config"
	"github.com/goalmesh/goalmesh/evaluation"
	"github.com/goalmesh/goalmesh/logging"
	"github.com/goalmesh/goalmesh/orchestrator"
)

var rootCmd = &cobra.Command{
	Use:   "goalmesh",
	Short: "goalmesh - goal-driven multi-agent orchestration",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a single goal or start an interactive session",
	RunE:  runRun,
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the batch evaluation harness over the built-in goal set",
	RunE:  runEval,
}

var (
	goalFlag    string
	envFileFlag string
	jsonFlag    bool
	outDirFlag  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Path to a .env file with credentials")
	runCmd.Flags().StringVarP(&goalFlag, "goal", "g", "", "Single goal to process")
	runCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the full result context as JSON")
	evalCmd.Flags().StringVarP(&outDirFlag, "out", "o", ".", "Directory for the results file")
	rootCmd.AddCommand(runCmd, evalCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newSystem() (*goalmesh.System, error) {
	cfg, err := config.Load(envFileFlag)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	sys := goalmesh.New(func(o *goalmesh.Options) {
		o.Config = cfg
		o.Logger = logging.NewConsoleLogger(cfg.Debug)
	})
	return sys, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	sys, err := newSystem()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if goalFlag != "" {
		printResult(os.Stdout, sys.ProcessGoal(ctx, goalFlag))
		return nil
	}

	return repl(ctx, sys, os.Stdin, os.Stdout)
}

func repl(ctx context.Context, sys *goalmesh.System, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "goalmesh interactive session (type 'exit' to quit)")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nGoal> ")
		if !scanner.Scan() {
			break
		}
		goal := strings.TrimSpace(scanner.Text())
		if goal == "" {
			continue
		}
		if goal == "exit" || goal == "quit" || goal == "q" {
			break
		}

		printResult(out, sys.ProcessGoal(ctx, goal))
	}
	return scanner.Err()
}

func printResult(out io.Writer, res orchestrator.Result) {
	if jsonFlag {
		fmt.Fprintln(out, res.Context.JSON())
		return
	}

	summary := res.Summary()
	if summary == "" {
		summary = "No summary produced; raw context follows.\n" + res.Context.JSON()
	}
	fmt.Fprintln(out, summary)
	fmt.Fprintf(out, "\n[agents: %s]\n", strings.Join(res.Trajectory, " -> "))
}

func runEval(cmd *cobra.Command, args []string) error {
	sys, err := newSystem()
	if err != nil {
		return err
	}

	harness := evaluation.NewHarness(sys, func(o *evaluation.HarnessOptions) {
		o.OutputDir = outDirFlag
		o.Logger = logging.NewConsoleLogger(false)
	})

	report := harness.Run(context.Background())

	path, err := harness.Save(report)
	if err != nil {
		return err
	}

	fmt.Printf("Evaluation complete. Results saved to %s\n", path)
	fmt.Printf("Success rate: %.2f%% (%d/%d)\n", report.SuccessRate(), report.SuccessCount(), len(report.Records))

	usage := report.AgentUsage()
	names := make([]string, 0, len(usage))
	for name := range usage {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nAgent usage statistics:")
	for _, name := range names {
		fmt.Printf("%s: %d times\n", name, usage[name])
	}

	return nil
}
