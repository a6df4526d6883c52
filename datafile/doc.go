// SPDX-License-Identifier: MIT

// Package datafile holds the primitives shared by every simulator output
// reader: precision and byte order, record keys, the record offset index,
// explicit-offset decoding and the error taxonomy.
//
// What:
//
//   - Precision (Auto, Single, Double) and DefaultByteOrder, the single
//     byte-order override point for readers and writers.
//   - Key{Kstp, Kper}: 1-based time step / stress period as stored in files.
//   - Entry and Index: one entry per record with header and payload offsets,
//     so any record can be re-read without rescanning.
//   - Decoder / Encoder: fixed-width values at explicit offsets of a byte
//     slice. There is no hidden cursor anywhere in the codec layer.
//   - Source: where bytes come from. PathSource opens the file for each
//     operation and closes it on every exit path.
//
// Errors:
//
//   - ErrCorruptFile:   precision undetectable, bad header, short read.
//   - ErrNotFound:      no record for a key, time or text.
//   - ErrShapeMismatch: a record disagrees with the expected dimensions.
package datafile
