package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/bessim/core/strategy"
)

// ErrLengthMismatch is returned when the input series lengths disagree.
var ErrLengthMismatch = errors.New("input series length mismatch")

// Inputs holds the three aligned hourly series. The slices must have equal
// length and share the same chronological ordering.
type Inputs struct {
	Timestamps []time.Time
	PVKW       []float64
	DemandKW   []float64
	Price      []float64
}

// Len returns the number of hours.
func (in Inputs) Len() int { return len(in.Timestamps) }

// Validate checks that all series are aligned.
func (in Inputs) Validate() error {
	n := len(in.Timestamps)
	if len(in.PVKW) != n || len(in.DemandKW) != n || len(in.Price) != n {
		return fmt.Errorf("%w: timestamps=%d pv=%d demand=%d price=%d",
			ErrLengthMismatch, n, len(in.PVKW), len(in.DemandKW), len(in.Price))
	}
	return nil
}

// Hour returns the strategy input for index i.
func (in Inputs) Hour(i int) strategy.HourInput {
	return strategy.HourInput{
		Timestamp: in.Timestamps[i],
		PVKW:      in.PVKW[i],
		DemandKW:  in.DemandKW[i],
		Price:     in.Price[i],
	}
}
