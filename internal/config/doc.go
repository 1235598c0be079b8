// Package config loads and validates masked-priming session settings.
//
// Settings are read from YAML over the built-in defaults, checked against an
// embedded CUE schema, and converted exactly once into PhaseTimings. Every
// duration in the settings document is expressed in wall-clock seconds; the
// scheduler only ever sees frame counts.
//
// # Frame Conversion
//
// A duration becomes a frame count via round(seconds / refreshInterval). The
// conversion happens in NewPhaseTimings and nowhere else, so a session never
// re-derives a phase length mid-run.
//
// # Session
//
// Session bundles the values drawn once at startup (subject id and key
// assignment) with the derived timings. It is passed by value to the design
// generator and the trial scheduler; there is no package-level mutable state.
package config
