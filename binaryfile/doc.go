// SPDX-License-Identifier: MIT

// Package binaryfile reads and writes the simulator's binary output files:
// dependent-variable arrays (heads, drawdown, concentration) and cell-by-cell
// budgets.
//
// What:
//
//   - HeadFile: structured heads (KindHead), unstructured heads with node
//     ranges (KindHeadU) and concentrations (KindConcentration).
//   - BudgetFile: budget records of every read method, decoded through a
//     table keyed by ReadMethod into typed payloads.
//   - Writer: the inverse of both readers.
//   - Reverse: rewrite a file backwards in time, for adjoint-style runs.
//
// File layout:
//
// Files are unformatted stream files: headers and payloads follow each other
// without record markers. Floats are 4 or 8 bytes (Precision), integers are
// 4 bytes. Byte order defaults to datafile.DefaultByteOrder.
//
//	head:    kstp kper pertim totim text[16] ncol nrow ilay | ncol·nrow F
//	ucn:     ntrans kstp kper totim text[16] ncol nrow ilay | ncol·nrow F
//	budget:  kstp kper text[16] ndim1 ndim2 ndim3
//	         [imeth delt pertim totim]   when ndim3 < 0
//	         payload by imeth (see ReadMethod)
//
// Reading:
//
// Construction scans headers only and builds a datafile.Index. Every later
// read seeks to the offsets stored in the index; nothing depends on a file
// cursor. Scanning is best effort: an unexpected shape marks the entry, an
// unreadable header or a payload past the end stops the scan, marks the
// index truncated and logs a warning.
//
// Precision detection (Auto) probes double first, then single. A probe is
// accepted when the first header is plausible and the first record either
// ends exactly at EOF or is followed by another plausible header.
//
// Errors: datafile.ErrCorruptFile, datafile.ErrNotFound,
// datafile.ErrShapeMismatch.
package binaryfile
