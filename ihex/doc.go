// Package ihex reads and writes the subset of Intel-HEX used by the ubaboot
// bootloader: data records (type 00) and the end-of-file record (type 01).
//
// # Record Format
//
// Each record is one line of ASCII hex:
//
//	:BBAAAATT[DD...]CC
//	  BB   = byte count (payload length)
//	  AAAA = 16-bit load address, big-endian
//	  TT   = record type (00 data, 01 end of file)
//	  DD   = BB payload bytes
//	  CC   = checksum
//
// The sum of every decoded byte of a record, checksum included, is 0 modulo 256.
// Anything before a ':' is treated as line noise and skipped.
//
// Example:
//
//	:10000000214601360121470136007EFE09D2190141
//	:00000001FF
//
// # Usage
//
// Load all data blocks from a file:
//
//	blocks, err := ihex.LoadFile("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, b := range blocks {
//	    fmt.Printf("0x%04X: %d bytes\n", b.Address, len(b.Data))
//	}
//
// Walk records one at a time:
//
//	p := ihex.NewParser(r)
//	for {
//	    rec, err := p.Next()
//	    if errors.Is(err, ihex.ErrNoMoreRecords) {
//	        break
//	    }
//	    ...
//	}
//
// Write a memory range back out:
//
//	err := ihex.Encode(os.Stdout, 0x0000, data)
//
// # Error Handling
//
// Decoding failures are returned as *FormatError carrying the 1-based record
// number and one of the sentinel kinds (ErrMalformedHex, ErrUnexpectedEOF,
// ErrBadChecksum, ErrBadRecordType, ErrMissingEOF), so callers can use
// errors.Is to tell them apart.
package ihex
