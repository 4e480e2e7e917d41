// Package report renders the predict CLI's XML run summary,
// grounded on predict.c's hand-printed <Run>...</Run> block in main and
// output_pred_results.
package report

import (
	"encoding/xml"
	"io"

	"github.com/iburbey/predict-markov/internal/adapter"
)

// Run is the XML document cmd/predict writes after a prediction test.
type Run struct {
	XMLName xml.Name `xml:"Run"`

	TestFile         string `xml:"TestFile,omitempty"`
	SourceDir        string `xml:"SourceDir,omitempty"`
	ResearchQuestion string `xml:"ResearchQuestion"`
	TrainingFile     string `xml:"TrainingFile"`

	NumTests           int `xml:"NumTests"`
	FallbackNum        int `xml:"FallbackNum"`
	FallbackNumCorrect int `xml:"FallbackNumCorrect"`

	MostProbNumCorrect          int  `xml:"MostProb_NumCorrect,omitempty"`
	MostProbNeighborCorrect     *int `xml:"MostProb_NeighborCorrect,omitempty"`
	MostProbWithin10Minutes     *int `xml:"MostProb_Within10Minutes,omitempty"`
	MostProbWithin20Minutes     *int `xml:"MostProb_Within20Minutes,omitempty"`
	MostProbMultiplePredictions int  `xml:"MostProb_MultiplePredictions,omitempty"`

	LessProbNumCorrect          int  `xml:"LessProb_NumCorrect,omitempty"`
	LessProbNeighborCorrect     *int `xml:"LessProb_NeighborCorrect,omitempty"`
	LessProbWithin10Minutes     *int `xml:"LessProb_Within10Minutes,omitempty"`
	LessProbWithin20Minutes     *int `xml:"LessProb_Within20Minutes,omitempty"`
	LessProbMultiplePredictions int  `xml:"LessProb_MultiplePredictions,omitempty"`

	ConfidenceLevel           *int `xml:"ConfidenceLevel,omitempty"`
	ConfidenceLevelNumCorrect *int `xml:"ConfidenceLevel_NumCorrect,omitempty"`
}

// FromAccumulator builds a Run from a completed adapter.Accumulator,
// selecting the WHERE-neighbor or WHEN-time-window fields (never both)
// and the confidence-level fields only when a confidence level was
// configured, matching output_pred_results' three mutually exclusive
// output shapes.
func FromAccumulator(acc *adapter.Accumulator, question adapter.ResearchQuestion, confidenceLevel int, researchQuestionName, trainingFile string) Run {
	run := Run{
		ResearchQuestion:   researchQuestionName,
		TrainingFile:       trainingFile,
		NumTests:           acc.NumTests,
		FallbackNum:        acc.FallbackNum,
		FallbackNumCorrect: acc.FallbackNumCorrect,
	}

	if confidenceLevel >= 0 {
		level := confidenceLevel
		correct := acc.MostProbNumCorrect
		run.ConfidenceLevel = &level
		run.ConfidenceLevelNumCorrect = &correct
		return run
	}

	run.MostProbNumCorrect = acc.MostProbNumCorrect
	run.MostProbMultiplePredictions = acc.MostProbMultiplePredictions
	run.LessProbNumCorrect = acc.LessProbNumCorrect
	run.LessProbMultiplePredictions = acc.LessProbMultiplePredictions

	if question == adapter.Where {
		n := acc.MostProbNeighborCorrect
		run.MostProbNeighborCorrect = &n
		n2 := acc.LessProbNeighborCorrect
		run.LessProbNeighborCorrect = &n2
	} else {
		n10 := acc.MostProbWithin10Minutes
		n20 := acc.MostProbWithin20Minutes
		run.MostProbWithin10Minutes = &n10
		run.MostProbWithin20Minutes = &n20
		l10 := acc.LessProbWithin10Minutes
		l20 := acc.LessProbWithin20Minutes
		run.LessProbWithin10Minutes = &l10
		run.LessProbWithin20Minutes = &l20
	}
	return run
}

// Write marshals run as indented XML to w, each field on its own line
// the way predict.c's hand-printed output does.
func Write(w io.Writer, run Run) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "   ")
	if err := enc.Encode(run); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
