// Package protocol defines the ubaboot USB bootloader wire protocol.
//
// ubaboot has no framing of its own. Every operation is a single vendor
// control transfer on endpoint 0:
//
//	bmRequestType  0xC0 (device-to-host) or 0x40 (host-to-device)
//	bRequest       request code 1-7
//	wValue         memory address
//	wIndex         0
//	wLength        data stage size
//
// # Requests
//
//	1 GET_SIGNATURE  read 3 bytes
//	2 READ_FLASH     read flash at wValue
//	3 WRITE_FLASH    write flash at wValue (512-byte blocks)
//	4 REBOOT         no data
//	5 READ_EEPROM    read EEPROM at wValue
//	6 WRITE_EEPROM   write EEPROM at wValue (16-byte blocks)
//	7 GET_LOCK       read 4 bytes: lfuse, lock, efuse, hfuse
//
// Use BuildReadRequest and BuildWriteRequest to construct setup packets and
// ParseSignature / ParseFuses to decode fixed-size responses:
//
//	req, err := protocol.BuildReadRequest(protocol.ReqReadFlash, 0x0000, 512)
//	sig, err := protocol.ParseSignature(buf)
//
// The device needs WriteSettleDelay after each block write before it accepts
// the next request.
package protocol
