package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HFD format errors.
var (
	ErrInvalidHFDMagic       = errors.New("invalid HFD magic: expected 'HFLD'")
	ErrUnsupportedHFDVersion = errors.New("unsupported HFD version")
	ErrTruncatedHFDData      = errors.New("truncated HFD data")
	ErrHFDChecksum           = errors.New("HFD checksum mismatch")
	ErrInvalidHFDDimensions  = errors.New("invalid HFD dimensions")
)

const (
	hfdMagic      = "HFLD"
	hfdHeaderSize = 4 + 2 + 4 + 4 + 4 + 4 + 4
	hfdTrailer    = 8
	hfdMaxSide    = 8192
)

// HFDVersion represents the HFD file version.
type HFDVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v HFDVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentHFDVersion is the version written by Encode.
var CurrentHFDVersion = HFDVersion{Major: 1, Minor: 0}

// HFD is a parsed Height Field Data file.
//
// Layout (little endian): magic "HFLD", version [minor, major],
// columns uint32, rows uint32, cell size float32, origin X float32,
// origin Z float32, columns*rows float32 heights stored column by
// column, then an xxhash64 of all preceding bytes.
type HFD struct {
	Version  HFDVersion
	Columns  uint32
	Rows     uint32
	CellSize float32
	OriginX  float32
	OriginZ  float32
	Heights  []float32
}

// Height returns the height of node (column, row).
// Returns false if coordinates are out of bounds.
func (h *HFD) Height(column, row int) (float32, bool) {
	if column < 0 || row < 0 || column >= int(h.Columns) || row >= int(h.Rows) {
		return 0, false
	}
	return h.Heights[column*int(h.Rows)+row], true
}

// ParseHFD parses an HFD file from raw bytes.
func ParseHFD(data []byte) (*HFD, error) {
	if len(data) < hfdHeaderSize+hfdTrailer {
		return nil, ErrTruncatedHFDData
	}

	if string(data[0:4]) != hfdMagic {
		return nil, ErrInvalidHFDMagic
	}

	// Version is stored as [minor, major]
	version := HFDVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major != CurrentHFDVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHFDVersion, version)
	}

	body := data[:len(data)-hfdTrailer]
	want := binary.LittleEndian.Uint64(data[len(data)-hfdTrailer:])
	if got := xxhash.Sum64(body); got != want {
		return nil, fmt.Errorf("%w: got %016x, want %016x", ErrHFDChecksum, got, want)
	}

	r := bytes.NewReader(body[6:])
	h := &HFD{Version: version}

	header := []any{&h.Columns, &h.Rows, &h.CellSize, &h.OriginX, &h.OriginZ}
	for _, field := range header {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("%w: reading header", ErrTruncatedHFDData)
		}
	}

	if err := validateHFD(h); err != nil {
		return nil, err
	}

	count := int(h.Columns) * int(h.Rows)
	if r.Len() != count*4 {
		return nil, fmt.Errorf("%w: expected %d height bytes, have %d", ErrTruncatedHFDData, count*4, r.Len())
	}

	h.Heights = make([]float32, count)
	if err := binary.Read(r, binary.LittleEndian, h.Heights); err != nil {
		return nil, fmt.Errorf("%w: reading heights", ErrTruncatedHFDData)
	}

	return h, nil
}

// validateHFD checks the header fields ParseHFD accepts.
func validateHFD(h *HFD) error {
	if h.Columns < 2 || h.Rows < 2 || h.Columns > hfdMaxSide || h.Rows > hfdMaxSide {
		return fmt.Errorf("%w: %dx%d", ErrInvalidHFDDimensions, h.Columns, h.Rows)
	}
	if !(h.CellSize > 0) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidHFDDimensions, h.CellSize)
	}
	return nil
}

// ParseHFDFile parses an HFD file from disk.
func ParseHFDFile(path string) (*HFD, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HFD file: %w", err)
	}
	return ParseHFD(data)
}

// Encode serializes the height field, appending the checksum.
func (h *HFD) Encode() ([]byte, error) {
	if err := validateHFD(h); err != nil {
		return nil, err
	}
	if int(h.Columns)*int(h.Rows) != len(h.Heights) {
		return nil, fmt.Errorf("%w: %dx%d with %d heights", ErrInvalidHFDDimensions, h.Columns, h.Rows, len(h.Heights))
	}

	buf := new(bytes.Buffer)
	buf.Grow(hfdHeaderSize + len(h.Heights)*4 + hfdTrailer)

	buf.WriteString(hfdMagic)
	buf.WriteByte(CurrentHFDVersion.Minor)
	buf.WriteByte(CurrentHFDVersion.Major)

	fields := []any{h.Columns, h.Rows, h.CellSize, h.OriginX, h.OriginZ, h.Heights}
	for _, field := range fields {
		if err := binary.Write(buf, binary.LittleEndian, field); err != nil {
			return nil, err
		}
	}

	var sum [hfdTrailer]byte
	binary.LittleEndian.PutUint64(sum[:], xxhash.Sum64(buf.Bytes()))
	buf.Write(sum[:])

	return buf.Bytes(), nil
}

// WriteFile encodes the height field to path.
func (h *HFD) WriteFile(path string) error {
	data, err := h.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetHeightRange returns the minimum and maximum height.
func (h *HFD) GetHeightRange() (min, max float32) {
	if len(h.Heights) == 0 {
		return 0, 0
	}

	min, max = h.Heights[0], h.Heights[0]
	for _, v := range h.Heights[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
