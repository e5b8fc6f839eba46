package assets

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcon(t *testing.T) {
	data := Icon()
	require.Greater(t, len(data), 22)

	le := binary.LittleEndian
	assert.EqualValues(t, 0, le.Uint16(data[0:2]))
	assert.EqualValues(t, 1, le.Uint16(data[2:4]), "type is icon")
	assert.EqualValues(t, 1, le.Uint16(data[4:6]), "image count")
	assert.EqualValues(t, 32, data[6])
	assert.EqualValues(t, 32, data[7])
	assert.EqualValues(t, len(data)-22, le.Uint32(data[14:18]))
	assert.EqualValues(t, 22, le.Uint32(data[18:22]))

	img, err := png.Decode(bytes.NewReader(data[22:]))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())

	// Corners are transparent, the lens centre is not.
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
	assert.Equal(t, color.NRGBA{R: 0x8f, G: 0xd3, B: 0xff, A: 0xff}, color.NRGBAModel.Convert(img.At(16, 19)))
}

func TestIcon_Cached(t *testing.T) {
	assert.Equal(t, Icon(), Icon())
}
