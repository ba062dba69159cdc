// Package coinfolio provides the core types and engines for tracking a
// cryptocurrency portfolio from an append-only event log. It is designed to
// be local-first and fully deterministic: replaying the same log always
// produces the same figures, digit for digit.
//
// The core functionalities include:
//   - Event Log: Recording all portfolio activity (buys, sells, swaps,
//     transfers, rewards, and DeFi movements) as immutable events. Edits and
//     deletions are appended as replacement and tombstone events and resolved
//     latest-wins at read time, so history is never rewritten.
//   - Lot Engine: A stateless cost-basis engine that replays the resolved
//     events into acquisition lots and consumes them on disposals under a
//     configurable lot-selection policy (FIFO, LIFO, HIFO, or average cost),
//     producing positions, realized disposals, and data-quality warnings.
//   - Daily Snapshots: Day-stepped portfolio valuations built from the event
//     log and stored price history, with incremental rebuilds that are
//     byte-identical to a full rebuild.
//   - Tax Reports: Calendar-year views of disposals, income, and year-end
//     holdings under jurisdiction profiles that may constrain the lot method.
//   - Data Persistence: Encoding and decoding events as human-readable JSONL,
//     and fetching daily close prices from a public market-data endpoint.
//
// This package serves as the foundational logic for the `cfo` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package coinfolio
