// Package evaluation runs a fixed battery of goals through the orchestrator,
// persists the per-goal outcomes to a timestamped JSON file, and reports
// aggregate success-rate and agent-usage statistics.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
	"github.com/goalmesh/goalmesh/orchestrator"
)

// DefaultGoals covers every registered capability plus two multi-agent
// scenarios.
var DefaultGoals = []string{
	// SpaceX and weather
	"Find the next SpaceX launch and check the weather at the launch site.",
	"When is the next SpaceX launch and will the weather be good for launch?",

	// News
	"Find the latest news about SpaceX launches.",
	"What are the recent news articles about artificial intelligence?",

	// Wikipedia
	"What is quantum computing?",
	"Tell me about the history of space exploration.",

	// Movies
	"What is the latest Marvel movie?",
	"Tell me about the movie Inception.",

	// Crypto
	"What is the current price of Bitcoin?",
	"How has Ethereum performed over the last week?",

	// Recipes
	"Find a recipe for chocolate chip cookies.",
	"What are some easy dinner recipes?",

	// General Q&A
	"What is the capital of France?",
	"How does photosynthesis work?",

	// Multi-agent
	"Find the next SpaceX launch, check weather at that location, then summarize if it may be delayed.",
	"Tell me about Bitcoin and summarize recent news about cryptocurrency.",
}

// Processor is the goal-processing operation under evaluation; satisfied by
// *orchestrator.Orchestrator.
type Processor interface {
	ProcessGoal(ctx context.Context, goal string) orchestrator.Result
}

// Record is the persisted outcome of one evaluated goal.
type Record struct {
	Goal            string       `json:"goal"`
	Response        core.Context `json:"response,omitempty"`
	Error           string       `json:"error,omitempty"`
	AgentTrajectory []string     `json:"agent_trajectory"`
	Success         bool         `json:"success"`
}

// Report aggregates the records of one harness run.
type Report struct {
	StartedAt time.Time `json:"started_at"`
	Records   []Record  `json:"records"`
}

// SuccessCount returns the number of successful records.
func (r *Report) SuccessCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Success {
			n++
		}
	}
	return n
}

// SuccessRate returns the fraction of successful records as a percentage.
func (r *Report) SuccessRate() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return float64(r.SuccessCount()) / float64(len(r.Records)) * 100
}

// AgentUsage counts how often each agent appears across all trajectories.
func (r *Report) AgentUsage() map[string]int {
	usage := map[string]int{}
	for _, rec := range r.Records {
		for _, agent := range rec.AgentTrajectory {
			usage[agent]++
		}
	}
	return usage
}

// HarnessOptions configure the evaluation harness.
type HarnessOptions struct {
	Goals     []string
	OutputDir string
	Logger    logging.Logger
	Now       func() time.Time
}

// Harness feeds goals to a Processor one at a time and collects Records.
type Harness struct {
	processor Processor
	opts      HarnessOptions
}

// NewHarness constructs a Harness with optional overrides; the default goal
// set is DefaultGoals and results are written to the working directory.
func NewHarness(processor Processor, optFns ...func(o *HarnessOptions)) *Harness {
	opts := HarnessOptions{
		Goals:     DefaultGoals,
		OutputDir: ".",
		Logger:    logging.NoOpLogger{},
		Now:       time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Harness{processor: processor, opts: opts}
}

// Run evaluates every goal. A panic while processing a goal is recorded as a
// failed run; the batch always completes.
func (h *Harness) Run(ctx context.Context) *Report {
	report := &Report{StartedAt: h.opts.Now()}

	for _, goal := range h.opts.Goals {
		h.opts.Logger.Info("evaluating goal", "goal", goal)
		record := h.evaluate(ctx, goal)
		if record.Success {
			h.opts.Logger.Info("goal evaluated", "trajectory", record.AgentTrajectory)
		} else {
			h.opts.Logger.Error("goal evaluation failed", "goal", goal, "error", record.Error)
		}
		report.Records = append(report.Records, record)
	}

	return report
}

func (h *Harness) evaluate(ctx context.Context, goal string) (record Record) {
	record = Record{Goal: goal}

	defer func() {
		if r := recover(); r != nil {
			record.Error = fmt.Sprintf("panic: %v", r)
			record.Success = false
		}
	}()

	result := h.processor.ProcessGoal(ctx, goal)
	record.Response = result.Context
	record.AgentTrajectory = result.Trajectory
	record.Success = true
	return record
}

// Save writes the report to evaluation_results_<timestamp>.json in the
// configured output directory and returns the file path.
func (h *Harness) Save(report *Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	name := fmt.Sprintf("evaluation_results_%s.json", h.opts.Now().Format("20060102_150405"))
	path := filepath.Join(h.opts.OutputDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
