// SPDX-License-Identifier: MIT
// Package: usgflow/datafile
//
// source.go — byte sources with explicit-offset reads.

package datafile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ReaderAtCloser is an io.ReaderAt that must be closed after use.
type ReaderAtCloser interface {
	io.ReaderAt
	io.Closer
}

// Source hands out a reader and its size for one operation.
type Source interface {
	Open() (ReaderAtCloser, int64, error)
	Name() string
}

// PathSource opens a file by path for every operation.
type PathSource string

// Open implements Source.
func (p PathSource) Open() (ReaderAtCloser, int64, error) {
	f, err := os.Open(string(p))
	if err != nil {
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, st.Size(), nil
}

// Name implements Source.
func (p PathSource) Name() string { return string(p) }

type nopCloser struct{ io.ReaderAt }

func (nopCloser) Close() error { return nil }

// ReaderSource wraps an in-memory or caller-owned reader of known size.
func ReaderSource(r io.ReaderAt, size int64, name string) Source {
	return readerSource{r: r, size: size, name: name}
}

type readerSource struct {
	r    io.ReaderAt
	size int64
	name string
}

func (s readerSource) Open() (ReaderAtCloser, int64, error) {
	return nopCloser{s.r}, s.size, nil
}

func (s readerSource) Name() string { return s.name }

// ReadAt reads exactly n bytes at off. Reading past the end wraps both
// ErrCorruptFile and io.ErrUnexpectedEOF.
func ReadAt(r io.ReaderAt, off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := r.ReadAt(buf, off)
	if got == n {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w: %w", n, off, ErrCorruptFile, io.ErrUnexpectedEOF)
	}
	return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, off, err)
}
