package bootloader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/moffa90/go-ubaboot/ihex"
	"github.com/moffa90/go-ubaboot/memory"
	"github.com/moffa90/go-ubaboot/protocol"
	"github.com/moffa90/go-ubaboot/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	ctx := context.Background()

	sig, err := New(simulator.New()).Identify(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.Signature(0x1E9587), sig)

	sig, err = New(simulator.New(simulator.WithSignature(0x1E9488))).Identify(ctx)
	assert.Equal(t, protocol.Signature(0x1E9488), sig)
	var mismatch *DeviceMismatchError
	require.ErrorAs(t, err, &mismatch)

	sig, err = New(simulator.New(simulator.WithSignature(0x1E9488)), WithSignature(0x1E9488)).Identify(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.Signature(0x1E9488), sig)
}

func TestIdentifyTransportErrors(t *testing.T) {
	dev := simulator.New()
	dev.InjectShort(protocol.ReqGetSignature, 0, 2)

	_, err := New(dev).Identify(context.Background())
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, ErrShortTransfer)

	boom := errors.New("no device")
	dev = simulator.New()
	dev.InjectError(protocol.ReqGetSignature, 0, boom)

	_, err = New(dev).Identify(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestReadFuses(t *testing.T) {
	want := protocol.Fuses{Low: 0x5E, Lock: 0x2F, Extended: 0xF3, High: 0x99}
	dev := simulator.New(simulator.WithFuses(want))

	got, err := New(dev).ReadFuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	dev.InjectShort(protocol.ReqGetLock, 0, 1)
	_, err = New(dev).ReadFuses(context.Background())
	assert.ErrorIs(t, err, ErrShortTransfer)
}

func TestReboot(t *testing.T) {
	dev := simulator.New()
	p := New(dev)

	require.NoError(t, p.Reboot(context.Background()))
	assert.Equal(t, 1, dev.Reboots())

	dev.FailReboot(errors.New("pipe"))
	err := p.Reboot(context.Background())
	assert.ErrorIs(t, err, ErrReboot)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, byte(protocol.ReqReboot), te.Request)
}

func TestRead(t *testing.T) {
	dev := simulator.New()
	data := pattern(1000)
	dev.LoadFlash(0x100, data)
	p := New(dev)

	var updates []Progress
	p.config.ProgressCallback = func(pr Progress) { updates = append(updates, pr) }

	got, err := p.Read(context.Background(), p.Flash(), 0x100, 1000)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	transfers := dev.Transfers()
	require.Len(t, transfers, 2)
	assert.Equal(t, simulator.Transfer{Request: protocol.ReqReadFlash, Address: 0x100, Length: 512}, transfers[0])
	assert.Equal(t, simulator.Transfer{Request: protocol.ReqReadFlash, Address: 0x300, Length: 488}, transfers[1])

	require.Len(t, updates, 2)
	assert.Equal(t, PhaseReading, updates[1].Phase)
	assert.Equal(t, 1000, updates[1].Done)
}

func TestReadBounds(t *testing.T) {
	dev := simulator.New()
	p := New(dev)

	_, err := p.Read(context.Background(), p.EEPROM(), 1000, 100)
	assert.ErrorIs(t, err, memory.ErrOutOfBounds)

	_, err = p.Read(context.Background(), p.Flash(), -1, 10)
	assert.ErrorIs(t, err, memory.ErrOutOfBounds)

	// must fail at once rather than loop on zero-length reads
	space := p.Flash()
	space.ReadBlockSize = 0
	_, err = p.Read(context.Background(), space, 0, 16)
	assert.ErrorIs(t, err, ErrBadGeometry)

	_, err = p.Dump(context.Background(), space, io.Discard, DumpOptions{})
	assert.ErrorIs(t, err, ErrBadGeometry)

	assert.Empty(t, dev.Transfers())
}

func TestDumpTrimmed(t *testing.T) {
	dev := simulator.New()
	data := pattern(40)
	dev.LoadFlash(0, data)
	p := New(dev)

	var out bytes.Buffer
	n, err := p.Dump(context.Background(), p.Flash(), &out, DumpOptions{TrimErased: true})
	require.NoError(t, err)
	assert.Equal(t, 40, n)
	assert.Equal(t, protocol.FlashSize/protocol.FlashReadBlockSize, dev.Count(protocol.ReqReadFlash))

	blocks, err := ihex.Load(&out)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0].Data, 16)
	assert.Len(t, blocks[2].Data, 8)

	img, err := memory.Build(blocks, protocol.FlashSize, protocol.FlashSize)
	require.NoError(t, err)
	assert.Equal(t, 40, img.HighWaterMark())
	assert.Equal(t, data, img.Used())
}

func TestDumpWholeSpaceRoundTrip(t *testing.T) {
	dev := simulator.New()
	dev.LoadEEPROM(0, pattern(100))
	p := New(dev)

	var out bytes.Buffer
	n, err := p.Dump(context.Background(), p.EEPROM(), &out, DumpOptions{})
	require.NoError(t, err)
	assert.Equal(t, protocol.EEPROMSize, n)

	blocks, err := ihex.Load(&out)
	require.NoError(t, err)
	assert.Len(t, blocks, protocol.EEPROMSize/ihex.DefaultRecordSize)

	img, err := memory.Build(blocks, protocol.EEPROMSize, protocol.EEPROMSize)
	require.NoError(t, err)
	assert.Equal(t, dev.EEPROM(), img.Used())
}

func TestDumpRange(t *testing.T) {
	dev := simulator.New()
	dev.LoadFlash(0x7E00, []byte{0x0C, 0x94, 0x00, 0x3F})
	p := New(dev)

	var out bytes.Buffer
	n, err := p.Dump(context.Background(), p.Flash(), &out, DumpOptions{Start: 0x7E00, Count: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, ":047E00000C94003F9F\n:00000001FF\n", out.String())
}

func TestDumpAllErased(t *testing.T) {
	p := New(simulator.New())

	var out bytes.Buffer
	n, err := p.Dump(context.Background(), p.EEPROM(), &out, DumpOptions{TrimErased: true})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, ":00000001FF\n", out.String())
}

func TestDumpReadError(t *testing.T) {
	dev := simulator.New()
	dev.InjectError(protocol.ReqReadFlash, 0x0400, errors.New("timeout"))
	p := New(dev)

	var out bytes.Buffer
	_, err := p.Dump(context.Background(), p.Flash(), &out, DumpOptions{})
	assert.ErrorIs(t, err, ErrRead)
	assert.Zero(t, out.Len())
}

func TestSpaces(t *testing.T) {
	p := New(simulator.New(), WithFlashGeometry(16384, 1024), WithEEPROMSize(512))

	flash := p.Flash()
	assert.Equal(t, 16384, flash.Capacity)
	assert.Equal(t, 15360, flash.Limit())
	assert.Equal(t, byte(protocol.ReqWriteFlash), flash.WriteRequest)

	eeprom, ok := p.SpaceByName("eeprom")
	require.True(t, ok)
	assert.Equal(t, 512, eeprom.Limit())
	assert.Equal(t, 16, eeprom.WriteBlockSize)

	_, ok = p.SpaceByName("fuses")
	assert.False(t, ok)
}
