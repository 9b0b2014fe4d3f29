package ihex

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/marcinbor85/gohex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMarshalText(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "end of file",
			rec:  Record{Type: TypeEndOfFile},
			want: ":00000001FF",
		},
		{
			name: "data",
			rec: Record{
				Type:    TypeData,
				Address: 0x0100,
				Data: []byte{
					0x21, 0x46, 0x01, 0x36, 0x01, 0x21, 0x47, 0x01,
					0x36, 0x00, 0x7E, 0xFE, 0x09, 0xD2, 0x19, 0x01,
				},
			},
			want: ":10010000214601360121470136007EFE09D2190140",
		},
		{
			name: "stored checksum ignored",
			rec:  Record{Type: TypeData, Address: 0x0100, Data: []byte{0x01, 0xFF}, Checksum: 0x00},
			want: ":0201000001FFFD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rec.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRecordMarshalTextTooLong(t *testing.T) {
	rec := Record{Type: TypeData, Data: make([]byte, MaxDataLength+1)}
	_, err := rec.MarshalText()
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0x0200, data))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ":10020000000102030405060708090A0B0C0D0E0F76", lines[0])
	assert.Equal(t, ":0402100010111213A4", lines[1])
	assert.Equal(t, ":00000001FF", lines[2])
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0, nil))
	assert.Equal(t, ":00000001FF\n", buf.String())
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer

	err := Encode(&buf, 0xFFF0, make([]byte, 17))
	assert.Error(t, err)

	err = EncodeSize(&buf, 0, []byte{1}, 0)
	assert.Error(t, err)

	err = Encode(failingWriter{}, 0, []byte{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write hex output")
}

func TestEncodeRoundTrip(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i * 7)
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0x1000, data))

	blocks, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var got []byte
	next := 0x1000
	for _, b := range blocks {
		assert.Equal(t, next, int(b.Address))
		assert.LessOrEqual(t, len(b.Data), DefaultRecordSize)
		got = append(got, b.Data...)
		next = b.End()
	}
	assert.Equal(t, data, got)
}

func TestEncodeAcceptedByGohex(t *testing.T) {
	data := bytes.Repeat([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0xFF}, 100)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, 0x0080, data))

	mem := gohex.NewMemory()
	require.NoError(t, mem.ParseIntelHex(bytes.NewReader(buf.Bytes())))

	segments := mem.GetDataSegments()
	require.Len(t, segments, 1)
	assert.Equal(t, uint32(0x0080), segments[0].Address)
	assert.Equal(t, data, segments[0].Data)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0xFF), Checksum([]byte{0x00, 0x00, 0x00, 0x01}))
	assert.Equal(t, byte(0x00), Checksum(nil))
	assert.Equal(t, byte(0x00), Checksum([]byte{0x80, 0x80}))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
