// SPDX-License-Identifier: MIT

// Package listbudget extracts the volumetric budget tables printed in
// MODFLOW-2005, MODFLOW-USG and MODFLOW 6 listing files.
//
// What:
//
//	A budget section starts at a "VOLUMETRIC BUDGET FOR ENTIRE MODEL" or
//	"VOLUME BUDGET FOR ENTIRE MODEL" line naming the time step and stress
//	period, and ends at its PERCENT DISCREPANCY line. Each "NAME = cum
//	NAME = rate [PACKAGE]" line becomes a Term under the current IN: or OUT:
//	heading. Transport models print MASS BUDGET sections in the same layout
//	and are read the same way.
//
// Errors:
//
//   - datafile.ErrCorruptFile: a section without its key, an unparsable
//     value line, or a section cut off before its discrepancy line.
//   - datafile.ErrNotFound:    Get or Series with an unknown key or term.
//
// Overflowed values printed as asterisks read as NaN.
package listbudget
