// Package cfl reads and writes arrays as a pair of files:
// name.hdr, a text header holding the extents, and name.cfl,
// the samples as little-endian complex64, first axis fastest.
package cfl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jvlmdr/pnp-sense/md"
)

// Load reads the array stored under name with n axes.
// Trailing axes are padded with extent one.
func Load(name string, n int) (*md.Array, error) {
	dims, err := loadHeader(name+".hdr", n)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(name + ".cfl")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	a := md.New(dims)
	if err := DecodeData(bufio.NewReader(file), a.Data); err != nil {
		return nil, fmt.Errorf("read %s.cfl: %v", name, err)
	}
	return a, nil
}

// Save writes a to the files of name.
func Save(name string, a *md.Array) error {
	f, err := Create(name, a.Dims)
	if err != nil {
		return err
	}
	md.Copy(f.Array, a)
	return f.Close()
}

func loadHeader(fname string, n int) (md.Dims, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	dims, err := DecodeHeader(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v", fname, err)
	}
	for len(dims) > n {
		if dims[len(dims)-1] != 1 {
			return nil, fmt.Errorf("too many dimensions: want %d, got %v", n, dims)
		}
		dims = dims[:len(dims)-1]
	}
	return md.Pad(dims, n), nil
}

// DecodeHeader reads the extents following the "# Dimensions" line.
// Other sections are ignored.
func DecodeHeader(r io.Reader) (md.Dims, error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		if strings.TrimSpace(s.Text()) != "# Dimensions" {
			continue
		}
		if !s.Scan() {
			break
		}
		var dims md.Dims
		for _, f := range strings.Fields(s.Text()) {
			x, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("parse dimension: %v", err)
			}
			if x < 0 {
				return nil, fmt.Errorf("negative dimension: %d", x)
			}
			dims = append(dims, x)
		}
		if len(dims) == 0 {
			return nil, fmt.Errorf("empty dimensions")
		}
		return dims, nil
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no dimensions in header")
}

func EncodeHeader(w io.Writer, dims md.Dims) error {
	fields := make([]string, len(dims))
	for i, x := range dims {
		fields[i] = strconv.Itoa(x)
	}
	_, err := fmt.Fprintf(w, "# Dimensions\n%s\n", strings.Join(fields, " "))
	return err
}

// DecodeData fills x with samples from r.
func DecodeData(r io.Reader, x []complex128) error {
	buf := make([]complex64, len(x))
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return err
	}
	for i, z := range buf {
		x[i] = complex128(z)
	}
	return nil
}

func EncodeData(w io.Writer, x []complex128) error {
	buf := make([]complex64, len(x))
	for i, z := range x {
		buf[i] = complex64(z)
	}
	return binary.Write(w, binary.LittleEndian, buf)
}

// File is an array to be written on Close.
type File struct {
	Array *md.Array
	name  string
	hdr   *os.File
	cfl   *os.File
}

// Create opens the files of name for an array of shape dims.
// The array is written when the File is closed.
func Create(name string, dims md.Dims) (*File, error) {
	hdr, err := os.Create(name + ".hdr")
	if err != nil {
		return nil, err
	}
	cfl, err := os.Create(name + ".cfl")
	if err != nil {
		hdr.Close()
		return nil, err
	}
	return &File{Array: md.New(dims), name: name, hdr: hdr, cfl: cfl}, nil
}

// Close writes the header and samples and closes the files.
// It panics if called twice.
func (f *File) Close() error {
	if f.Array == nil {
		panic("file closed twice")
	}
	defer func() { f.Array = nil }()
	err := EncodeHeader(f.hdr, f.Array.Dims)
	if cerr := f.hdr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		f.cfl.Close()
		return fmt.Errorf("write %s.hdr: %v", f.name, err)
	}
	w := bufio.NewWriter(f.cfl)
	err = EncodeData(w, f.Array.Elems())
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.cfl.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s.cfl: %v", f.name, err)
	}
	return nil
}
