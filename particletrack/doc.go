// SPDX-License-Identifier: MIT

// Package particletrack reads particle tracking output: MODPATH 7 pathline
// and endpoint files and MODFLOW 6 PRT track CSV files.
//
// What:
//
//   - ReadPathlines / OpenPathlines: MODPATH_PATHLINE_FILE 7 text files.
//   - ReadEndpoints / OpenEndpoints: MODPATH_ENDPOINT_FILE 7 text files.
//   - ReadPRT / OpenPRT: PRT track CSV, grouped into pathlines.
//   - Pathlines and Endpoints share Get, All, MaxID, MaxTime, Destination
//     and Filter.
//
// Numbering:
//
//	Particle ids, nodes and layers are 0-based in memory. MODPATH files are
//	1-based and converted on read; PRT particles are numbered in order of
//	first appearance of (model, release point, release time).
//
// Errors:
//
//   - datafile.ErrCorruptFile: missing header, short record, bad number.
//   - datafile.ErrNotFound:    Get with an unknown particle id.
package particletrack
