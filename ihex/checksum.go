package ihex

// Checksum computes the Intel-HEX checksum byte for the given record fields
// (byte count, address high, address low, type, payload).
//
// The result is 256 minus the field sum, modulo 256, so that the sum of the
// fields plus the checksum is 0 modulo 256.
func Checksum(fields []byte) byte {
	var sum byte
	for _, b := range fields {
		sum += b
	}
	return byte(0x100 - int(sum))
}

// recordChecksum returns the checksum for a record built from its parts.
func recordChecksum(t RecordType, address uint16, data []byte) byte {
	sum := byte(len(data)) + byte(address>>8) + byte(address) + byte(t)
	return Checksum(data) - sum
}
