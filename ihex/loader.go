package ihex

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultBlockCapacity is the initial capacity for the blocks slice
const DefaultBlockCapacity = 256

// LoadFile loads all data blocks from the Intel-HEX file at path.
//
// Example:
//
//	blocks, err := ihex.LoadFile("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadFile(path string) ([]Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Load reads records from r until the end-of-file record and returns the data
// blocks in input order. The end-of-file record itself is not returned.
//
// Any decoding error aborts the load; no partial result is returned.
// Input that ends without an end-of-file record fails with ErrMissingEOF.
func Load(r io.Reader) ([]Block, error) {
	p := NewParser(r)
	blocks := make([]Block, 0, DefaultBlockCapacity)

	for {
		rec, err := p.Next()
		if errors.Is(err, ErrNoMoreRecords) {
			return nil, &FormatError{Line: p.Line(), Kind: ErrMissingEOF}
		}
		if err != nil {
			return nil, err
		}

		if rec.Type == TypeEndOfFile {
			return blocks, nil
		}

		blocks = append(blocks, Block{Address: rec.Address, Data: rec.Data})
	}
}
