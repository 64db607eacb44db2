// Package trial drives the associative memory end to end: it trains an
// engine on a reference disk, recalls independently noised copies in a
// bounded worker pool and locates the centre of every recalled pattern.
//
// Each trial owns its own random source seeded with Seed+k, so a report is
// reproducible from its seed regardless of worker scheduling.
package trial
