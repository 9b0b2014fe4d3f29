package protocol

// ParseSignature decodes a GET_SIGNATURE response (3 bytes, MSB first).
//
// Example:
//
//	sig, err := protocol.ParseSignature([]byte{0x1E, 0x95, 0x87})
//	// sig == 0x1E9587
func ParseSignature(data []byte) (Signature, error) {
	if len(data) != SignatureSize {
		return 0, &ResponseSizeError{Request: ReqGetSignature, Expected: SignatureSize, Actual: len(data)}
	}

	return Signature(uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])), nil
}

// ParseFuses decodes a GET_LOCK response. The wire order is
// [lfuse, lock, efuse, hfuse].
func ParseFuses(data []byte) (Fuses, error) {
	if len(data) != FusesSize {
		return Fuses{}, &ResponseSizeError{Request: ReqGetLock, Expected: FusesSize, Actual: len(data)}
	}

	return Fuses{
		Low:      data[0],
		Lock:     data[1],
		Extended: data[2],
		High:     data[3],
	}, nil
}
