package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Binary layout: a fixed header followed by count*dim little-endian float32s
// in insertion order. The format is versioned so a stale bundle fails loudly
// instead of deserializing garbage.
const (
	fileMagic     = 0x53464C58 // "SFLX"
	formatVersion = 1
)

type fileHeader struct {
	Magic   uint32
	Version uint32
	Dim     uint32
	Count   uint32
}

// WriteTo serializes the index. The output round-trips through ReadFrom into
// an index with identical search behavior.
func (f *Flat) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	hdr := fileHeader{
		Magic:   fileMagic,
		Version: formatVersion,
		Dim:     uint32(f.dim),
		Count:   uint32(f.count),
	}
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}

	buf := make([]byte, 4)
	for _, v := range f.vectors {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write index vectors: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return nil
}

// ReadFrom deserializes an index previously written by WriteTo.
func ReadFrom(r io.Reader) (*Flat, error) {
	br := bufio.NewReader(r)

	var hdr fileHeader
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read index header: %w", err)
	}
	if hdr.Magic != fileMagic {
		return nil, fmt.Errorf("not an index file: magic %#x", hdr.Magic)
	}
	if hdr.Version != formatVersion {
		return nil, fmt.Errorf("unsupported index format version %d", hdr.Version)
	}

	f := &Flat{
		dim:   int(hdr.Dim),
		count: int(hdr.Count),
	}
	n := f.dim * f.count
	if n > 0 {
		data := make([]byte, n*4)
		if _, err := io.ReadFull(br, data); err != nil {
			return nil, fmt.Errorf("read index vectors: %w", err)
		}
		f.vectors = make([]float32, n)
		for i := range f.vectors {
			f.vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	}

	return f, nil
}
