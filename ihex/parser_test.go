package ihex

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserNext(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     *Record
		wantKind error
		wantLine int
	}{
		{
			name:  "data record",
			input: ":10010000214601360121470136007EFE09D2190140\n",
			want: &Record{
				Type:    TypeData,
				Address: 0x0100,
				Data: []byte{
					0x21, 0x46, 0x01, 0x36, 0x01, 0x21, 0x47, 0x01,
					0x36, 0x00, 0x7E, 0xFE, 0x09, 0xD2, 0x19, 0x01,
				},
				Checksum: 0x40,
			},
		},
		{
			name:  "end of file record",
			input: ":00000001FF\n",
			want:  &Record{Type: TypeEndOfFile, Address: 0, Data: []byte{}, Checksum: 0xFF},
		},
		{
			name:  "lowercase digits",
			input: ":0201000001fffd\n",
			want:  &Record{Type: TypeData, Address: 0x0100, Data: []byte{0x01, 0xFF}, Checksum: 0xFD},
		},
		{
			name:  "noise before marker",
			input: "garbage; not a record\r\n  :00000001FF",
			want:  &Record{Type: TypeEndOfFile, Data: []byte{}, Checksum: 0xFF},
		},
		{
			name:     "malformed digit",
			input:    ":0G000001FF\n",
			wantKind: ErrMalformedHex,
			wantLine: 1,
		},
		{
			name:     "premature end in address",
			input:    ":0000",
			wantKind: ErrUnexpectedEOF,
			wantLine: 1,
		},
		{
			name:     "byte count larger than available data",
			input:    ":04000000AABB",
			wantKind: ErrUnexpectedEOF,
			wantLine: 1,
		},
		{
			name:     "checksum off by one",
			input:    ":10000000214601360121470136007EFE09D2190140\n",
			wantKind: ErrBadChecksum,
			wantLine: 1,
		},
		{
			name:     "bad checksum",
			input:    ":00000001FE\n",
			wantKind: ErrBadChecksum,
			wantLine: 1,
		},
		{
			name:     "extended linear address rejected",
			input:    ":020000040800F2\n",
			wantKind: ErrBadRecordType,
			wantLine: 1,
		},
		{
			name:     "type checked before payload",
			input:    ":02000002ZZ",
			wantKind: ErrBadRecordType,
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(strings.NewReader(tt.input))
			got, err := p.Next()

			if tt.wantKind != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantKind)

				var fe *FormatError
				require.True(t, errors.As(err, &fe), "expected *FormatError, got %T", err)
				assert.Equal(t, tt.wantLine, fe.Line)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParserNoMoreRecords(t *testing.T) {
	for _, input := range []string{"", "\n\n", "no marker here"} {
		p := NewParser(strings.NewReader(input))
		_, err := p.Next()
		assert.ErrorIs(t, err, ErrNoMoreRecords, "input %q", input)
		assert.Equal(t, 0, p.Line())
	}
}

func TestParserLineCounting(t *testing.T) {
	input := ":0100000011EE\n" +
		":0100010022DC\n" +
		":01000200330A\n"

	p := NewParser(strings.NewReader(input))

	_, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Line())

	_, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Line())

	_, err = p.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadChecksum)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParsersAreIndependent(t *testing.T) {
	a := NewParser(strings.NewReader(":0100000011EE\n:00000001FF\n"))
	b := NewParser(strings.NewReader(":00000001FF\n"))

	_, err := a.Next()
	require.NoError(t, err)

	_, err = b.Next()
	require.NoError(t, err)

	assert.Equal(t, 1, a.Line())
	assert.Equal(t, 1, b.Line())
}

func TestFormatErrorMessage(t *testing.T) {
	err := &FormatError{Line: 7, Kind: ErrBadChecksum, Detail: "sum is 0x01"}
	assert.Equal(t, "line 7: bad checksum: sum is 0x01", err.Error())

	err = &FormatError{Line: 2, Kind: ErrMissingEOF}
	assert.Equal(t, "line 2: missing end-of-file record", err.Error())
}

func TestRecordTypeString(t *testing.T) {
	assert.Equal(t, "data", TypeData.String())
	assert.Equal(t, "end-of-file", TypeEndOfFile.String())
	assert.Equal(t, "type 0x04", RecordType(0x04).String())
}
