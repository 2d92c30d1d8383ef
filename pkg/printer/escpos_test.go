package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_KeyValueFillsWidth(t *testing.T) {
	d := NewDocument(20)
	d.KeyValue("Total", "105.00")

	out := d.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))
	line := string(out[2:])
	assert.Equal(t, "Total         105.00\n", line)
}

func TestDocument_ItemLineTruncatesLongTitles(t *testing.T) {
	d := NewDocument(20)
	d.ItemLine(2, "A Very Long Book Title Indeed", "30.00")

	line := string(d.Bytes()[2:])
	assert.Equal(t, 21, len(line))
	assert.Contains(t, line, "2x A Very")
	assert.True(t, bytes.HasSuffix([]byte(line), []byte(" 30.00\n")))
}

func TestDocument_ValueWiderThanPaper(t *testing.T) {
	d := NewDocument(8)
	assert.NotPanics(t, func() { d.KeyValue("Total", "1234567890.00") })
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "none", p.Kind())
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)

	p, err = NewPrinterFromConfig("network", "", "127.0.0.1:9100")
	require.NoError(t, err)
	assert.Equal(t, "network", p.Kind())
}
