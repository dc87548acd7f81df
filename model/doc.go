// Package model defines the record types shared by the fetcher, the cache
// store, and the criteria engine.
//
// # Identity Types
//
//   - SystemID: unique identifier of a solar system (int32, ESI-assigned)
//
// # Data Types
//
//   - SolarSystem: one universe record with its nested planet collections
//   - Planet: a planet entry carrying its moon and asteroid-belt ids
//   - Position: a point in universe coordinates
package model
