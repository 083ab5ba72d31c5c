package faultsource

import (
	"strconv"

	"github.com/tremor-data/forward.report/internal/gfstore"
)

// ChannelInfo describes one recording channel of a station.
type ChannelInfo struct {
	Code    string
	Azimuth float64
	Dip     float64
}

// Station is a seismic recording site with its channels.
type Station struct {
	Network string
	Name    string
	Lat     float64
	Lon     float64

	Channels []ChannelInfo
}

// Channel returns the station's channel with the given code, or nil.
func (s *Station) Channel(code string) *ChannelInfo {
	for i := range s.Channels {
		if s.Channels[i].Code == code {
			return &s.Channels[i]
		}
	}
	return nil
}

// InitTargets builds the target list for a set of stations, one target
// per requested channel per velocity-model variant index. The location
// code carries the variant index so per-variant stores stay
// distinguishable downstream.
func InitTargets(stations []Station, channels []string, earthModel string,
	sampleRate float64, crustInds []int) []Target {

	var targets []Target
	for _, channel := range channels {
		for _, crustInd := range crustInds {
			for i := range stations {
				sta := &stations[i]
				ch := sta.Channel(channel)
				if ch == nil {
					continue
				}
				targets = append(targets, Target{
					Network:  sta.Network,
					Station:  sta.Name,
					Location: strconv.Itoa(crustInd),
					Channel:  channel,
					Lat:      sta.Lat,
					Lon:      sta.Lon,
					Azimuth:  ch.Azimuth,
					Dip:      ch.Dip,
					StoreID:  gfstore.FormatStoreID(sta.Name, earthModel, sampleRate, crustInd),
				})
			}
		}
	}
	return targets
}
