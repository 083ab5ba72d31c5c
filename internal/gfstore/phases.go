// Package gfstore provides the client side of a precomputed
// Green's-function store: tabulated phase travel-time lookup keyed by
// source depth and surface distance, plus the channel-to-phase convention
// used to pick the tabulated phase for a target.
package gfstore

import "fmt"

// Tabulated phase identifiers. Stores are built with one compressional
// and one shear phase table.
const (
	PhaseP = "any_P"
	PhaseS = "any_S"
)

// Recognised target channel codes.
const (
	ChannelTransverse = "T" // shear wave
	ChannelVertical   = "Z" // compressional wave
)

// UnknownChannelError is returned for a channel code outside the two
// recognised codes. This is an unrecoverable input error: there is no
// phase table to fall back to.
type UnknownChannelError struct {
	Code string
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("gfstore: channel %q not supported, want %q or %q",
		e.Code, ChannelTransverse, ChannelVertical)
}

// PhaseForChannel maps a target channel code to the tabulated phase
// identifier: transverse channels observe the shear arrival, vertical
// channels the compressional arrival.
func PhaseForChannel(code string) (string, error) {
	switch code {
	case ChannelTransverse:
		return PhaseS, nil
	case ChannelVertical:
		return PhaseP, nil
	default:
		return "", &UnknownChannelError{Code: code}
	}
}

// FormatStoreID builds the store identifier for a station's velocity
// model variant: station name, earth model, sample rate and the index of
// the perturbed crustal model (0 = unperturbed reference).
func FormatStoreID(station, earthModel string, sampleRate float64, crustInd int) string {
	return fmt.Sprintf("%s_%s_%.3fHz_%d", station, earthModel, sampleRate, crustInd)
}
