// SPDX-License-Identifier: MIT

// Package formattedfile reads and writes the text (formatted) variant of
// simulator array output: heads, drawdown and similar layer arrays.
//
// Record layout:
//
//	kstp kper pertim totim text ncol nrow ilay fmtin
//	v v v v v …                      ncol·nrow values, wrapped over lines
//
// The label may contain blanks; it is everything between the fourth token
// and the last four. fmtin is a Fortran edit descriptor such as
// (10(1X1PE13.5)) or (20F10.3). When it parses, values are split into
// fixed-width columns, which handles fields that touch; otherwise (or when
// a line does not split cleanly) values are split on whitespace.
//
// Operations mirror binaryfile.HeadFile: an index of line offsets is built
// once, every read seeks to an explicit offset, and lookups by key or time
// report datafile.ErrNotFound. A header that does not parse, or values
// running past EOF, stop the scan with Index.Truncated set and a warning.
package formattedfile
