package model

import "fmt"

// SystemID is the ESI-assigned identifier of a solar system.
type SystemID int32

// String returns a string representation of the SystemID.
func (id SystemID) String() string {
	return fmt.Sprintf("system(%d)", int32(id))
}

// Position is a point in universe coordinates, in meters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Planet is one planet entry of a solar system. Moons and AsteroidBelts
// hold the ids of the nested bodies; either may be absent.
type Planet struct {
	PlanetID      int32   `json:"planet_id"`
	Moons         []int32 `json:"moons,omitempty"`
	AsteroidBelts []int32 `json:"asteroid_belts,omitempty"`
}

// SolarSystem is one universe record as served by ESI.
//
// NOTE: The JSON shape must stay wire-compatible with the ESI
// /universe/systems/{id}/ response; cached entries are persisted in
// this exact form.
type SolarSystem struct {
	SystemID        SystemID `json:"system_id"`
	Name            string   `json:"name"`
	ConstellationID int32    `json:"constellation_id"`
	SecurityStatus  float64  `json:"security_status"`
	SecurityClass   string   `json:"security_class,omitempty"`
	StarID          int32    `json:"star_id,omitempty"`
	Position        Position `json:"position"`
	Planets         []Planet `json:"planets,omitempty"`
	Stargates       []int32  `json:"stargates,omitempty"`
	Stations        []int32  `json:"stations,omitempty"`
}

// MoonCount returns the total number of moons across all planets.
func (s *SolarSystem) MoonCount() int {
	n := 0
	for _, p := range s.Planets {
		n += len(p.Moons)
	}
	return n
}

// BeltCount returns the total number of asteroid belts across all planets.
func (s *SolarSystem) BeltCount() int {
	n := 0
	for _, p := range s.Planets {
		n += len(p.AsteroidBelts)
	}
	return n
}
