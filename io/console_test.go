package io

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	con := &Console{Output: output}

	assert.NoError(con.Print(10))
	assert.NoError(con.Print(0xffffffff))
	assert.Equal("10\n4294967295\n", output.String())
	assert.Equal([]uint32{10, 0xffffffff}, con.Values())

	con.Rewind()
	assert.Empty(con.Values())

	for range con.Defines() {
		t.Fatal("console has no defines")
	}
}

func TestConsole_NoOutput(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	assert.NoError(con.Print(3))
	assert.Equal([]uint32{3}, con.Values())
}

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestConsole_WriteError(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Output: failWriter{}}
	assert.ErrorIs(con.Print(1), errWrite)
	assert.Equal([]uint32{1}, con.Values())
}
