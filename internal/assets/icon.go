// Package assets holds the tray icon.
package assets

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"sync"

	"golang.org/x/image/draw"
)

const iconSize = 32

var (
	iconOnce sync.Once
	iconData []byte
)

// Icon returns the tray icon as an ICO file holding one PNG image.
func Icon() []byte {
	iconOnce.Do(func() {
		iconData = encodeICO(drawCamera(iconSize))
	})
	return iconData
}

type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type iconDirEntry struct {
	Width      uint8
	Height     uint8
	Colors     uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

func encodeICO(img image.Image) []byte {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		// An in-memory RGBA always encodes.
		panic(err)
	}

	var buf bytes.Buffer
	size := img.Bounds().Size()
	binary.Write(&buf, binary.LittleEndian, iconDir{Type: 1, Count: 1})
	binary.Write(&buf, binary.LittleEndian, iconDirEntry{
		Width:      uint8(size.X),
		Height:     uint8(size.Y),
		Planes:     1,
		BitCount:   32,
		BytesInRes: uint32(pngBuf.Len()),
		Offset:     6 + 16,
	})
	buf.Write(pngBuf.Bytes())
	return buf.Bytes()
}

// drawCamera paints a simple camera: a dark body with a light lens.
func drawCamera(n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	body := image.NewUniform(color.RGBA{R: 0x3c, G: 0x44, B: 0x50, A: 0xff})
	lens := color.RGBA{R: 0x8f, G: 0xd3, B: 0xff, A: 0xff}

	unit := n / 16
	draw.Draw(img, image.Rect(5*unit, 3*unit, 11*unit, 5*unit), body, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(1*unit, 5*unit, 15*unit, 14*unit), body, image.Point{}, draw.Src)

	cx, cy := n/2, 19*n/32
	r := 3 * unit
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, lens)
			}
		}
	}
	return img
}
