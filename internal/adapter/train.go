package adapter

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	markov "github.com/iburbey/predict-markov"
)

// ResearchQuestion selects whether training (and later, testing) treats
// the trace in its natural Time,Location order (WHERE: "where will the
// subject be") or transposed to Location,Time order (WHEN: "when will
// the subject be at location x"), per predict.c's WHERE/WHEN modes.
type ResearchQuestion int

const (
	Where ResearchQuestion = iota
	When
)

// readSymbol performs a single raw little-endian 16-bit read, returning
// ok=false at end of stream. Grounded on the single-symbol fread used by
// predict.c's main training loop.
func readSymbol(r io.Reader) (markov.Symbol, bool, error) {
	var raw [2]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "adapter: short read from training stream")
	}
	return markov.Symbol(int16(binary.LittleEndian.Uint16(raw[:]))), true, nil
}

// TrainWhere trains model one symbol at a time in the stream's natural
// order, stopping at end of stream. Grounded on predict.c's main training
// loop for research_question == WHERE.
func TrainWhere(m *markov.Model, r io.Reader) error {
	for {
		c, ok, err := readSymbol(r)
		if err != nil {
			return err
		}
		m.ClearCurrentOrder()
		if !ok {
			return nil
		}
		if err := m.UpdateModel(c); err != nil {
			return err
		}
		if err := m.AddCharacter(c); err != nil {
			return err
		}
	}
}

// TrainWhen trains model on Time,Location pairs read from r, swapping
// each pair to Location,Time order before training, so the model learns
// to answer "when" given a location context. Grounded on predict.c's
// main training loop for research_question == WHEN.
func TrainWhen(m *markov.Model, r io.Reader) error {
	for {
		c1, ok1, err := readSymbol(r)
		if err != nil {
			return err
		}
		m.ClearCurrentOrder()
		if !ok1 {
			return nil
		}
		c2, ok2, err := readSymbol(r)
		if err != nil {
			return err
		}
		if !ok2 {
			return nil
		}

		if err := m.UpdateModel(c2); err != nil {
			return err
		}
		if err := m.AddCharacter(c2); err != nil {
			return err
		}

		m.ClearCurrentOrder()
		if err := m.UpdateModel(c1); err != nil {
			return err
		}
		if err := m.AddCharacter(c1); err != nil {
			return err
		}
	}
}
