package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v2"

	"tabq-go/internal/engine"
	"tabq-go/internal/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tabq: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New("missing subcommand; try 'train'")
	}

	switch os.Args[1] {
	case "train":
		return runTrain(os.Args[2:])
	default:
		return fmt.Errorf("unknown subcommand %q", os.Args[1])
	}
}

type gridCell struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

type slipCell struct {
	Row         int     `yaml:"row"`
	Col         int     `yaml:"col"`
	Probability float64 `yaml:"probability"`
}

type trainConfig struct {
	Episodes    int        `yaml:"episodes"`
	Alpha       float64    `yaml:"alpha"`
	Gamma       float64    `yaml:"gamma"`
	Epsilon     float64    `yaml:"epsilon"`
	MaxSteps    int        `yaml:"max_steps"`
	Policy      string     `yaml:"policy"`
	InitBeta    *float64   `yaml:"init_beta"`
	DecayRate   *float64   `yaml:"decay_rate"`
	Seed        int64      `yaml:"seed"`
	Rows        int        `yaml:"rows"`
	Cols        int        `yaml:"cols"`
	GoalReward  float64    `yaml:"goal_reward"`
	StepPenalty float64    `yaml:"step_penalty"`
	Walls       []gridCell `yaml:"walls"`
	Slips       []slipCell `yaml:"slips"`
	Chart       string     `yaml:"chart"`
	Smooth      int        `yaml:"smooth"`
}

func defaultTrainConfig() trainConfig {
	return trainConfig{
		Episodes:    500,
		Alpha:       0.1,
		Gamma:       0.9,
		Epsilon:     0.1,
		MaxSteps:    100,
		Policy:      "epsilon-greedy",
		Rows:        4,
		Cols:        4,
		GoalReward:  1.0,
		StepPenalty: 0.01,
		Smooth:      10,
	}
}

func loadTrainConfig(path string, base trainConfig) (trainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "optional YAML config file")
	episodes := fs.Int("episodes", 500, "number of training episodes")
	alpha := fs.Float64("alpha", 0.1, "learning rate (0-1]")
	gamma := fs.Float64("gamma", 0.9, "discount factor [0-1)")
	epsilon := fs.Float64("epsilon", 0.1, "exploration rate [0-1], epsilon-greedy only")
	maxSteps := fs.Int("max-steps", 100, "per-episode step cap")
	policyName := fs.String("policy", "epsilon-greedy", "policy: epsilon-greedy or softmax")
	initBeta := fs.Float64("init-beta", 1.0, "initial inverse temperature, softmax only")
	decayRate := fs.Float64("decay-rate", 0.05, "beta schedule rate, softmax only")
	seed := fs.Int64("seed", 0, "deterministic seed (0 for default)")
	rows := fs.Int("rows", 4, "gridworld rows")
	cols := fs.Int("cols", 4, "gridworld columns")
	goalReward := fs.Float64("goal-reward", 1.0, "reward for reaching the goal")
	stepPenalty := fs.Float64("step-penalty", 0.01, "penalty per environment step")
	chartPath := fs.String("chart", "", "write a steps-per-episode chart to this HTML file")
	smoothWin := fs.Int("smooth", 10, "moving-average window for the chart")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultTrainConfig()
	if *configPath != "" {
		loaded, err := loadTrainConfig(*configPath, cfg)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// Flags given explicitly on the command line win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "episodes":
			cfg.Episodes = *episodes
		case "alpha":
			cfg.Alpha = *alpha
		case "gamma":
			cfg.Gamma = *gamma
		case "epsilon":
			cfg.Epsilon = *epsilon
		case "max-steps":
			cfg.MaxSteps = *maxSteps
		case "policy":
			cfg.Policy = *policyName
		case "init-beta":
			v := *initBeta
			cfg.InitBeta = &v
		case "decay-rate":
			v := *decayRate
			cfg.DecayRate = &v
		case "seed":
			cfg.Seed = *seed
		case "rows":
			cfg.Rows = *rows
		case "cols":
			cfg.Cols = *cols
		case "goal-reward":
			cfg.GoalReward = *goalReward
		case "step-penalty":
			cfg.StepPenalty = *stepPenalty
		case "chart":
			cfg.Chart = *chartPath
		case "smooth":
			cfg.Smooth = *smoothWin
		}
	})

	if cfg.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive (got %d)", cfg.Episodes)
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0, 1] (got %.2f)", cfg.Alpha)
	}
	if cfg.Gamma < 0 || cfg.Gamma >= 1 {
		return fmt.Errorf("gamma must be in [0, 1) (got %.2f)", cfg.Gamma)
	}
	if cfg.Epsilon < 0 || cfg.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1] (got %.2f)", cfg.Epsilon)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("max-steps must be positive (got %d)", cfg.MaxSteps)
	}

	var useSoftmax bool
	switch cfg.Policy {
	case "epsilon-greedy":
	case "softmax":
		useSoftmax = true
	default:
		return fmt.Errorf("unknown policy %q (want epsilon-greedy or softmax)", cfg.Policy)
	}

	env := engine.NewGridworld(cfg.Rows, cfg.Cols, cfg.GoalReward, cfg.StepPenalty)
	for _, w := range cfg.Walls {
		env.SetWall(w.Row, w.Col)
	}
	if len(cfg.Slips) > 0 {
		env.SetRandomSource(rand.New(rand.NewSource(cfg.Seed + 1)))
		for _, s := range cfg.Slips {
			env.SetSlipTile(s.Row, s.Col, s.Probability)
		}
	}

	runID := uuid.NewString()[:8]
	fmt.Printf("run %s: env=gridworld %dx%d policy=%s episodes=%d seed=%d\n",
		runID, cfg.Rows, cfg.Cols, cfg.Policy, cfg.Episodes, cfg.Seed)

	trainer := engine.NewTrainer(engine.Config{
		NumIters:         cfg.Episodes,
		Alpha:            cfg.Alpha,
		Gamma:            cfg.Gamma,
		Epsilon:          cfg.Epsilon,
		MaxSteps:         cfg.MaxSteps,
		UseSoftmaxPolicy: useSoftmax,
		InitBeta:         cfg.InitBeta,
		DecayRate:        cfg.DecayRate,
		Seed:             cfg.Seed,
	})
	q, stepCounts, err := trainer.Train(env)
	if err != nil {
		return err
	}

	printSummary(stepCounts, cfg.MaxSteps)
	printPolicy(env, q)
	printValues(env, q)

	if cfg.Chart != "" {
		f, err := os.Create(cfg.Chart)
		if err != nil {
			return err
		}
		defer f.Close()
		title := fmt.Sprintf("steps per episode (run %s)", runID)
		if err := report.StepsChart(f, title, stepCounts, cfg.Smooth); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		fmt.Printf("chart written to %s\n", cfg.Chart)
	}
	return nil
}

func printSummary(stepCounts []int, maxSteps int) {
	total := 0
	finished := 0
	for _, n := range stepCounts {
		total += n
		if n < maxSteps {
			finished++
		}
	}
	n := len(stepCounts)
	avg := float64(total) / float64(n)
	tailStart := n - n/10
	tailTotal := 0
	for _, v := range stepCounts[tailStart:] {
		tailTotal += v
	}
	tailAvg := float64(tailTotal) / float64(n-tailStart)
	fmt.Printf("summary: avg_steps=%.2f last_decile_avg_steps=%.2f finished=%d/%d\n",
		avg, tailAvg, finished, n)
}

var actionGlyphs = [...]string{"^", ">", "v", "<"}

func printPolicy(g *engine.Gridworld, q *mat.Dense) {
	fmt.Println("greedy policy:")
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			switch {
			case g.IsGoal(r, c):
				fmt.Print(aurora.Green("  G "))
			case g.IsWall(r, c):
				fmt.Print(aurora.White("  # "))
			default:
				best := floats.MaxIdx(q.RawRowView(g.State(r, c)))
				fmt.Print(aurora.Blue(fmt.Sprintf("  %s ", actionGlyphs[best])))
			}
		}
		fmt.Println()
	}
}

func printValues(g *engine.Gridworld, q *mat.Dense) {
	fmt.Println("state values:")
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			v := floats.Max(q.RawRowView(g.State(r, c)))
			fmt.Print(aurora.Blue(formatValue(v)))
			fmt.Print(aurora.White("|"))
		}
		fmt.Println()
	}
}

func formatValue(x float64) string {
	if x < 0 {
		return " -" + fmt.Sprintf("%05.2f", -x)
	}
	return fmt.Sprintf(" %05.2f", x)
}
