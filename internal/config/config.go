// Package config parses the predict CLI's flags into a validated
// Config, grounded on predict.c's initialize_options.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/iburbey/predict-markov/internal/adapter"
)

// Function selects which of the two terminal actions main performs,
// mirroring predict.c's PREDICT_TEST/LOGLOSS_EVAL/NO_FUNCTION.
type Function int

const (
	NoFunction Function = iota
	PredictTest
	LogLossEval
)

// Config is the fully parsed, validated command line.
type Config struct {
	Function Function

	TrainingFile string
	TestFile     string

	Order            int
	Verbose          bool
	ResearchQuestion adapter.ResearchQuestion
	ConfidenceLevel  int
	InputType        string

	CountCSVPath string // "" disables per-test prediction-count logging.
}

// Parse parses args (excluding the program name) into a Config.
// Grounded on predict.c's initialize_options flag loop; flag.FlagSet
// is used rather than a subcommand framework, matching the teacher's
// train/compress/decompress mains and flanglet/kanzi-go's CLI drivers —
// no repo in the retrieval pack reaches for cobra/pflag/viper.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)

	trainingFile := fs.String("f", "test.inp", "training file name")
	testFile := fs.String("p", "", "test file to predict against")
	logLossFile := fs.String("logloss", "", "test file to compute average log-loss against")
	order := fs.Int("o", 3, "maximum context order")
	verbose := fs.Bool("v", false, "verbose mode")
	when := fs.Bool("when", false, "answer WHEN instead of WHERE")
	confidence := fs.Int("c", -1, "confidence level (0-100), -1 to disable")
	inputType := fs.String("input_type", "binboxstrings", "input representation: binboxstrings or bindowts")
	countCSV := fs.String("countcsv", "", "optional path to log per-test prediction counts as CSV")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: predict [-o order] [-v] [-logloss testfile] [-f trainingfile] [-p testfile] [-input_type type] [-when] [-c level] [-countcsv path]\n")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		TrainingFile:    *trainingFile,
		Order:           *order,
		Verbose:         *verbose,
		ConfidenceLevel: *confidence,
		InputType:       *inputType,
		CountCSVPath:    *countCSV,
	}

	if *when {
		cfg.ResearchQuestion = adapter.When
	} else {
		cfg.ResearchQuestion = adapter.Where
	}

	switch {
	case *testFile != "":
		cfg.Function = PredictTest
		cfg.TestFile = *testFile
	case *logLossFile != "":
		cfg.Function = LogLossEval
		cfg.TestFile = *logLossFile
	default:
		cfg.Function = NoFunction
	}

	if cfg.ConfidenceLevel < -1 || cfg.ConfidenceLevel > 100 {
		return Config{}, errors.Errorf("config: confidence level must be in [0,100], or -1 to disable, got %d", cfg.ConfidenceLevel)
	}

	if cfg.Order < 0 {
		return Config{}, errors.Errorf("config: order must be >= 0, got %d", cfg.Order)
	}
	if cfg.Order%2 == 0 {
		fmt.Fprintln(os.Stderr, "warning: max_order should be an odd value")
	}

	return cfg, nil
}
