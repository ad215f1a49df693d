// Package loandata loads, validates, cleans, and previews historical
// consumer loan datasets from flat files (CSV or XLSX).
//
// The loader maps header names to loan record fields through a
// case-insensitive alias table, normalizes values (percent stripping,
// explicit nulls for optional numerics), and supports deterministic
// sampling for working with large files. A missing required column fails
// the whole load with an error naming the column; a malformed value in a
// required field skips that row and is counted in the load summary.
//
// Cleaning applies the same eligibility invariant the aggregation engine
// enforces, but keeps per-condition removal counts so the run can report
// what was dropped and why. Previews summarize status and grade
// distributions before any filtering.
package loandata
