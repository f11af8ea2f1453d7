// Package bess models a single stationary battery energy storage system.
// The battery is a mutable state machine owned by exactly one simulation
// loop; it enforces power and state-of-charge limits and keeps efficiency
// accounting, but knows nothing about dispatch decisions.
package bess

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when battery parameters violate their bounds.
var ErrInvalidConfig = errors.New("invalid battery config")

// ErrInvalidInput is returned for negative power or duration requests. A
// negative request is a caller defect, not a physical condition.
var ErrInvalidInput = errors.New("invalid battery input")

// Config defines the fixed parameters of a battery. All fields are constant
// after construction.
type Config struct {
	// CapacityKWh is the nameplate energy capacity.
	CapacityKWh float64 `json:"capacity_kwh"`
	// PowerLimitKW caps instantaneous charge and discharge power.
	PowerLimitKW float64 `json:"power_limit_kw"`
	// InitialSoC is the state of charge at construction, as a fraction.
	InitialSoC float64 `json:"initial_soc"`
	// ChargingEfficiency and DischargingEfficiency are one-way loss factors
	// in (0,1].
	ChargingEfficiency    float64 `json:"charging_efficiency"`
	DischargingEfficiency float64 `json:"discharging_efficiency"`
	// MinSoC and MaxSoC bound the usable state-of-charge band.
	MinSoC float64 `json:"min_soc"`
	MaxSoC float64 `json:"max_soc"`
}

// Validate checks the parameter bounds.
func (c Config) Validate() error {
	if c.CapacityKWh <= 0 {
		return fmt.Errorf("%w: capacity_kwh must be > 0, got %v", ErrInvalidConfig, c.CapacityKWh)
	}
	if c.PowerLimitKW <= 0 {
		return fmt.Errorf("%w: power_limit_kw must be > 0, got %v", ErrInvalidConfig, c.PowerLimitKW)
	}
	if c.ChargingEfficiency <= 0 || c.ChargingEfficiency > 1 {
		return fmt.Errorf("%w: charging_efficiency must be in (0,1], got %v", ErrInvalidConfig, c.ChargingEfficiency)
	}
	if c.DischargingEfficiency <= 0 || c.DischargingEfficiency > 1 {
		return fmt.Errorf("%w: discharging_efficiency must be in (0,1], got %v", ErrInvalidConfig, c.DischargingEfficiency)
	}
	if c.MinSoC < 0 || c.MaxSoC > 1 || c.MinSoC >= c.MaxSoC {
		return fmt.Errorf("%w: soc band must satisfy 0 <= min < max <= 1, got [%v,%v]", ErrInvalidConfig, c.MinSoC, c.MaxSoC)
	}
	if c.InitialSoC < c.MinSoC || c.InitialSoC > c.MaxSoC {
		return fmt.Errorf("%w: initial_soc %v outside band [%v,%v]", ErrInvalidConfig, c.InitialSoC, c.MinSoC, c.MaxSoC)
	}
	return nil
}

// Battery holds the mutable state of one storage unit. Not safe for
// concurrent use; the simulation loop owns it exclusively.
type Battery struct {
	cfg Config

	storedKWh float64
	soc       float64

	// Lifetime counters, never reset.
	chargedKWh    float64
	dischargedKWh float64
	lossesKWh     float64
}

// New constructs a Battery from a validated Config.
func New(cfg Config) (*Battery, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Battery{cfg: cfg}
	b.storedKWh = cfg.InitialSoC * cfg.CapacityKWh
	b.soc = cfg.InitialSoC
	return b, nil
}

// Transfer reports the outcome of a single charge or discharge request.
// AppliedPowerKW is the rate-limited request level; AppliedEnergyKWh is the
// energy actually moved after efficiency and capacity clipping, so the two
// do not always agree for saturated calls.
type Transfer struct {
	AppliedPowerKW   float64
	AppliedEnergyKWh float64
	StoredKWh        float64
	SoC              float64
}

// Snapshot is a read-only copy of the battery state and parameters.
type Snapshot struct {
	Config        Config
	StoredKWh     float64
	SoC           float64
	ChargedKWh    float64
	DischargedKWh float64
	LossesKWh     float64
}

// Snapshot returns the current state. It never mutates the battery.
func (b *Battery) Snapshot() Snapshot {
	return Snapshot{
		Config:        b.cfg,
		StoredKWh:     b.storedKWh,
		SoC:           b.soc,
		ChargedKWh:    b.chargedKWh,
		DischargedKWh: b.dischargedKWh,
		LossesKWh:     b.lossesKWh,
	}
}

// Charge stores energy at the requested power for the given duration.
// The request is clipped to the power rating, then the deliverable energy
// (after charging efficiency) is clipped against the headroom below MaxSoC.
// Saturation is not an error; compare requested and applied values.
func (b *Battery) Charge(powerKW, hours float64) (Transfer, error) {
	if err := checkRequest(powerKW, hours); err != nil {
		return Transfer{}, err
	}

	applied := min(powerKW, b.cfg.PowerLimitKW)
	preEfficiency := applied * hours
	energy := preEfficiency * b.cfg.ChargingEfficiency

	headroom := b.cfg.MaxSoC*b.cfg.CapacityKWh - b.storedKWh
	if energy > headroom {
		energy = headroom
	}

	b.storedKWh += energy
	b.soc = b.storedKWh / b.cfg.CapacityKWh

	b.chargedKWh += energy
	b.lossesKWh += preEfficiency - energy

	return Transfer{
		AppliedPowerKW:   applied,
		AppliedEnergyKWh: energy,
		StoredKWh:        b.storedKWh,
		SoC:              b.soc,
	}, nil
}

// Discharge delivers energy at the requested power for the given duration.
// The deliverable energy (after discharging efficiency) is clipped against
// the availability above MinSoC. Losses accrue on the rate-limited request
// independent of clipping.
func (b *Battery) Discharge(powerKW, hours float64) (Transfer, error) {
	if err := checkRequest(powerKW, hours); err != nil {
		return Transfer{}, err
	}

	applied := min(powerKW, b.cfg.PowerLimitKW)
	energy := applied * hours * b.cfg.DischargingEfficiency

	availability := b.storedKWh - b.cfg.MinSoC*b.cfg.CapacityKWh
	if energy > availability {
		energy = availability
	}

	b.storedKWh -= energy
	b.soc = b.storedKWh / b.cfg.CapacityKWh

	b.dischargedKWh += energy
	b.lossesKWh += applied * hours * (1 - b.cfg.DischargingEfficiency)

	return Transfer{
		AppliedPowerKW:   applied,
		AppliedEnergyKWh: energy,
		StoredKWh:        b.storedKWh,
		SoC:              b.soc,
	}, nil
}

func checkRequest(powerKW, hours float64) error {
	if powerKW < 0 {
		return fmt.Errorf("%w: power must be >= 0, got %v", ErrInvalidInput, powerKW)
	}
	if hours < 0 {
		return fmt.Errorf("%w: duration must be >= 0, got %v", ErrInvalidInput, hours)
	}
	return nil
}
