package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Defaults applied to configuration records with missing fields.
const (
	DefaultRecordID   = "unknown"
	DefaultRecordName = "Unnamed Gate"
	DefaultRecordRank = "?"
)

// Record is one entry of a gate configuration file after defaults have
// been applied.
type Record struct {
	ID       string `validate:"required"`
	Name     string `validate:"required"`
	Rank     string `validate:"required"`
	Command  string
	XPReward int `validate:"min=0"`
}

var validate = validator.New()

func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("gate %q: %w", r.ID, err)
	}
	return nil
}

func (r Record) Descriptor() Descriptor {
	return Descriptor{
		ID:       r.ID,
		Name:     r.Name,
		Rank:     Rank(r.Rank),
		Command:  r.Command,
		XPReward: r.XPReward,
	}
}
