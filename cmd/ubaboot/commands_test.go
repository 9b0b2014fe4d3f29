package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFile struct {
	bytes.Buffer
	closeErr error
	closed   int
}

func (f *fakeFile) Close() error {
	f.closed++
	return f.closeErr
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.hex")

	err := writeFile(path, createFile, func(w io.Writer) error {
		_, err := fmt.Fprint(w, ":00000001FF\n")
		return err
	})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":00000001FF\n", string(got))
}

func TestWriteFileReportsCloseError(t *testing.T) {
	f := &fakeFile{closeErr: errors.New("no space left on device")}
	create := func(string) (io.WriteCloser, error) { return f, nil }

	err := writeFile("dump.hex", create, func(w io.Writer) error {
		_, err := io.WriteString(w, ":00000001FF\n")
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, f.closeErr)
	assert.Contains(t, err.Error(), "dump.hex")
	assert.Equal(t, 1, f.closed)
}

func TestWriteFileClosesOnWriteError(t *testing.T) {
	f := &fakeFile{closeErr: errors.New("ignored")}
	create := func(string) (io.WriteCloser, error) { return f, nil }
	readErr := errors.New("read failed")

	err := writeFile("dump.hex", create, func(io.Writer) error { return readErr })

	assert.ErrorIs(t, err, readErr)
	assert.NotErrorIs(t, err, f.closeErr)
	assert.Equal(t, 1, f.closed)
}

func TestWriteFileCreateError(t *testing.T) {
	called := false
	err := writeFile(filepath.Join(t.TempDir(), "missing", "dump.hex"), createFile, func(io.Writer) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create file")
	assert.False(t, called)
}
