package assets

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidRGBA(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDecodeRGBA(t *testing.T) {
	data := encodePNG(t, 3, 2, color.RGBA{R: 200, G: 40, B: 10, A: 255})

	rgba, err := decodeRGBA(data)
	require.NoError(t, err)

	bounds := rgba.Bounds()
	assert.Equal(t, 3, bounds.Dx())
	assert.Equal(t, 2, bounds.Dy())
	assert.Len(t, rgba.Pix, 3*2*4)
	assert.Equal(t, uint8(200), rgba.Pix[0])
	assert.Equal(t, uint8(40), rgba.Pix[1])
	assert.Equal(t, uint8(10), rgba.Pix[2])
	assert.Equal(t, uint8(255), rgba.Pix[3])
}

func TestDecodeRGBAInvalidData(t *testing.T) {
	_, err := decodeRGBA([]byte("not an image"))
	assert.Error(t, err)
}

func TestGenerateMipChain(t *testing.T) {
	l := NewLoader(FetcherTypeHTTP).(*loader)
	t.Cleanup(l.Dispose)

	base := solidRGBA(8, 4, color.RGBA{R: 120, G: 80, B: 40, A: 255})
	mips := l.generateMipChain(base)

	// 8x4 halves to 4x2, 2x1, 1x1.
	require.Len(t, mips, 3)
	assert.Len(t, mips[0], 4*2*4)
	assert.Len(t, mips[1], 2*1*4)
	assert.Len(t, mips[2], 1*1*4)

	// Scaling a uniform image preserves the color at every level.
	for _, mip := range mips {
		assert.Equal(t, uint8(120), mip[0])
		assert.Equal(t, uint8(80), mip[1])
		assert.Equal(t, uint8(40), mip[2])
		assert.Equal(t, uint8(255), mip[3])
	}
}

func TestGenerateMipChainOddDimensions(t *testing.T) {
	l := NewLoader(FetcherTypeHTTP).(*loader)
	t.Cleanup(l.Dispose)

	base := solidRGBA(5, 3, color.RGBA{R: 9, G: 9, B: 9, A: 255})
	mips := l.generateMipChain(base)

	// 5x3 halves to 2x1, 1x1 with floored dimensions.
	require.Len(t, mips, 2)
	assert.Len(t, mips[0], 2*1*4)
	assert.Len(t, mips[1], 4)
}

func TestGenerateMipChainSinglePixel(t *testing.T) {
	l := NewLoader(FetcherTypeHTTP).(*loader)
	t.Cleanup(l.Dispose)

	base := solidRGBA(1, 1, color.RGBA{A: 255})
	assert.Nil(t, l.generateMipChain(base))
}
