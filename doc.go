// SPDX-License-Identifier: MIT

// Package usgflow is a toolkit for layered unstructured groundwater grids
// and the files a MODFLOW-style simulator writes for them.
//
// What:
//
//	A grid of polygonal cells stacked in layers is turned into the IAC/JA/IVC
//	connectivity of a DISU discretization, and the simulator's output
//	(binary or formatted heads, cell-by-cell budgets, listing budgets and
//	particle tracks) is read back, reversed in time for backward tracking,
//	and aggregated by zone.
//
// Packages:
//
//	geometry/       polygon orientation, centroids, point-in-polygon
//	grid/           cell vertex cycles, layer stacking, GSF files
//	connectivity/   IAC/JA/IVC construction, validation, DISU text blocks
//	datafile/       record keys, index, byte codec, sentinel errors
//	binaryfile/     head/concentration/budget readers, writer, reversal
//	formattedfile/  Fortran-formatted head arrays
//	listbudget/     volumetric budgets from listing files
//	particletrack/  MODPATH 7 pathlines/endpoints, PRT track CSV
//	zonebudget/     zone-to-zone flow tables
//	modeltime/      stress periods, time steps, TDIS files
//	matrix/         small dense matrices for zone tables
//	config/         YAML configuration
//	cmd/usgflow/    command-line front end
//
// Errors are package sentinels matched with errors.Is; libraries log through
// an optional *zap.Logger and are silent by default.
package usgflow
