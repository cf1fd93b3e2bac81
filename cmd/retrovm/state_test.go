package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/retrovm/emulator"
)

func TestStateTable(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()
	assert.NoError(emu.AssembleString("LOAD R3 0x2a\nPRINT R3\nHALT"))
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())

	text := stateTable(emu, table.StyleDefault)
	assert.Contains(text, "0x0000002a")
	assert.Contains(text, "R7")
	assert.Contains(text, "42")
	assert.Contains(text, "0x005")
	assert.Contains(text, "true")
}

func TestDumpState(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()

	buf := &bytes.Buffer{}
	dumpState(buf, emu)
	assert.Contains(buf.String(), "+")
	assert.NotContains(buf.String(), "┌")
}

func TestWriteSnapshot(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()
	emu.Display.Scale = 3
	assert.NoError(emu.AssembleString("PIX 1 1 2\nHALT"))
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())

	path := filepath.Join(t.TempDir(), "fb.png")
	assert.NoError(writeSnapshot(path, emu))

	inf, err := os.Open(path)
	if !assert.NoError(err) {
		return
	}
	defer inf.Close()

	img, err := png.Decode(inf)
	assert.NoError(err)
	assert.Equal(32*3, img.Bounds().Dx())

	err = writeSnapshot(filepath.Join(t.TempDir(), "missing", "fb.png"), emu)
	assert.Error(err)
}
