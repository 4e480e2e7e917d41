// Command predict trains a variable-order finite-context Markov model
// on a mobility trace and either runs a prediction test or computes
// average log-loss against a held-out trace, printing an XML run
// summary. Restructured from predict.c's single-file driver into Go's
// conventional cmd/<binary>/main.go, the way the teacher splits
// train/main.go, compress/main.go, and decompress/main.go.
package main

import (
	"fmt"
	"os"

	markov "github.com/iburbey/predict-markov"
	"github.com/iburbey/predict-markov/internal/adapter"
	"github.com/iburbey/predict-markov/internal/config"
	"github.com/iburbey/predict-markov/internal/logctl"
	"github.com/iburbey/predict-markov/internal/report"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	logctl.SetVerbose(cfg.Verbose)

	if err := run(cfg); err != nil {
		logctl.Fatalf("%v", err)
	}
}

func run(cfg config.Config) error {
	trainingFile, err := os.Open(cfg.TrainingFile)
	if err != nil {
		return fmt.Errorf("opening training file %s: %w", cfg.TrainingFile, err)
	}
	defer trainingFile.Close()

	classifier := classifierFor(cfg.InputType)
	alphabetLow, alphabetHigh := classifier.AlphabetRange()
	m, err := markov.NewModel(cfg.Order, alphabetLow, alphabetHigh)
	if err != nil {
		return err
	}

	if cfg.ResearchQuestion == adapter.Where {
		err = adapter.TrainWhere(m, trainingFile)
	} else {
		err = adapter.TrainWhen(m, trainingFile)
	}
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	if !cfg.Verbose {
		fmt.Println("<Run>")
	}

	switch cfg.Function {
	case config.PredictTest:
		if err := runPredictTest(cfg, m, classifier); err != nil {
			return err
		}
	case config.LogLossEval:
		if err := runLogLoss(cfg, m); err != nil {
			return err
		}
	case config.NoFunction:
		logctl.Warnf("no -p or -logloss file given, nothing to do")
	}

	if !cfg.Verbose {
		fmt.Println("</Run>")
	}
	return nil
}

func runPredictTest(cfg config.Config, m *markov.Model, classifier adapter.Classifier) error {
	testFile, err := os.Open(cfg.TestFile)
	if err != nil {
		return fmt.Errorf("opening test file %s: %w", cfg.TestFile, err)
	}
	defer testFile.Close()

	test := markov.NewSymbolBuffer(markov.MaxPredictions)
	if _, err := test.ReadFromStream(testFile, test.Cap()); err != nil {
		return fmt.Errorf("reading test file: %w", err)
	}

	opts := adapter.Options{
		Question:        cfg.ResearchQuestion,
		ConfidenceLevel: cfg.ConfidenceLevel,
		Classifier:      classifier,
		Neighbors:       adapter.NeighborTable{},
		TimeIndex:       adapter.TimeIndex{},
	}
	acc, counts, err := adapter.RunTest(m, test, opts)
	if err != nil {
		return fmt.Errorf("running test: %w", err)
	}

	if cfg.CountCSVPath != "" {
		if err := writeCountCSV(cfg, counts); err != nil {
			return err
		}
	}

	questionName := "WHERE"
	if cfg.ResearchQuestion == adapter.When {
		questionName = "WHEN"
	}
	run := report.FromAccumulator(acc, cfg.ResearchQuestion, cfg.ConfidenceLevel, questionName, cfg.TrainingFile)
	run.TestFile = cfg.TestFile
	return report.Write(os.Stdout, run)
}

func runLogLoss(cfg config.Config, m *markov.Model) error {
	testFile, err := os.Open(cfg.TestFile)
	if err != nil {
		return fmt.Errorf("opening test file %s: %w", cfg.TestFile, err)
	}
	defer testFile.Close()

	test := markov.NewSymbolBuffer(markov.MaxPredictions)
	if _, err := test.ReadFromStream(testFile, test.Cap()); err != nil {
		return fmt.Errorf("reading test file: %w", err)
	}

	loss, err := m.ComputeLogLoss(test)
	if err != nil {
		return fmt.Errorf("computing log-loss: %w", err)
	}
	fmt.Printf("%d, %f\n", m.Order(), loss)
	return nil
}

func writeCountCSV(cfg config.Config, counts []adapter.PredictionCount) error {
	f, err := os.OpenFile(cfg.CountCSVPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening count csv %s: %w", cfg.CountCSVPath, err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil && fi.Size() == 0 {
		if cfg.ConfidenceLevel < 0 {
			fmt.Fprintln(f, "test_file_name, num_best_predictions, num_less_predictions, total_predictions")
		} else {
			fmt.Fprintln(f, "test_file_name, confidence_level, num_conf_predictions, total_predictions")
		}
	}
	for _, c := range counts {
		if cfg.ConfidenceLevel < 0 {
			fmt.Fprintf(f, "%s, %d, %d, %d\n", cfg.TestFile, c.NumBestPredictions, c.NumLessPredictions, c.TotalPredictions)
		} else {
			fmt.Fprintf(f, "%s, %d, %d, %d\n", cfg.TestFile, cfg.ConfidenceLevel, c.ConfidencePredictions, c.TotalPredictions)
		}
	}
	return nil
}

// classifierFor builds the symbol-kind window classifier for the given
// -input_type, and supplies that window as the model's alphabet range
// (spec.md §9's resolution tying the null table's size to the adapter's
// active representation rather than a hardcoded constant).
func classifierFor(inputType string) adapter.Classifier {
	switch inputType {
	case "bindowts":
		// predict.c's get_bindowts_type compares against INITIAL_START_TIME
		// (0x2620, model.h) <= symbol <= 0x25FF — an empty, always-false
		// range, evidently left broken when the DOWTS variant was drafted.
		// Its LOC window (0x2620..0x26FF) is used as-is; STRT is given a
		// disjoint window below it rather than reproducing the dead range.
		return adapter.Classifier{
			Representation:   adapter.BinDOWTimeslots,
			InitialStartTime: 0x2000,
			FinalStartTime:   0x25ff,
			InitialLocation:  0x2620,
			FinalLocation:    0x26ff,
		}
	default: // "binboxstrings"
		return adapter.Classifier{
			Representation:   adapter.BinBoxStrings,
			InitialStartTime: 0x2620,
			FinalStartTime:   0x2dff,
			InitialDuration:  0x2220,
			FinalDuration:    0x22ff,
			InitialLocation:  0x2320,
			FinalLocation:    0x25ff,
		}
	}
}
