package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iburbey/predict-markov/internal/adapter"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, "test.inp", cfg.TrainingFile)
	require.Equal(t, 3, cfg.Order)
	require.False(t, cfg.Verbose)
	require.Equal(t, adapter.Where, cfg.ResearchQuestion)
	require.Equal(t, -1, cfg.ConfidenceLevel)
	require.Equal(t, "binboxstrings", cfg.InputType)
	require.Equal(t, NoFunction, cfg.Function)
}

func TestParseSelectsPredictTestWhenTestFileGiven(t *testing.T) {
	cfg, err := Parse([]string{"-p", "trace.bin"})
	require.NoError(t, err)
	require.Equal(t, PredictTest, cfg.Function)
	require.Equal(t, "trace.bin", cfg.TestFile)
}

func TestParseSelectsLogLossEvalWhenLogLossFileGiven(t *testing.T) {
	cfg, err := Parse([]string{"-logloss", "trace.bin"})
	require.NoError(t, err)
	require.Equal(t, LogLossEval, cfg.Function)
	require.Equal(t, "trace.bin", cfg.TestFile)
}

func TestParseTestFileTakesPrecedenceOverLogLoss(t *testing.T) {
	cfg, err := Parse([]string{"-p", "a.bin", "-logloss", "b.bin"})
	require.NoError(t, err)
	require.Equal(t, PredictTest, cfg.Function)
	require.Equal(t, "a.bin", cfg.TestFile)
}

func TestParseWhenFlagSelectsWhenQuestion(t *testing.T) {
	cfg, err := Parse([]string{"-when"})
	require.NoError(t, err)
	require.Equal(t, adapter.When, cfg.ResearchQuestion)
}

func TestParseRejectsNegativeOrder(t *testing.T) {
	_, err := Parse([]string{"-o", "-1"})
	require.Error(t, err)
}

func TestParseRejectsOutOfRangeConfidence(t *testing.T) {
	_, err := Parse([]string{"-c", "150"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "confidence level")
}

func TestParseAcceptsInRangeConfidence(t *testing.T) {
	cfg, err := Parse([]string{"-c", "80"})
	require.NoError(t, err)
	require.Equal(t, 80, cfg.ConfidenceLevel)
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	_, err := Parse([]string{"-bogus"})
	require.Error(t, err)
}
