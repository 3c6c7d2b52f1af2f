package assets

import (
	"bytes"
	"image"
	"sync"

	// Decoders registered for texture decoding: png and jpeg cover the
	// catalog's stock art, webp covers the optimized variant.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"golang.org/x/image/draw"
)

// decodeRGBA decodes raw image bytes, sniffing the format from the content,
// and converts the result to tightly packed RGBA pixels.
func decodeRGBA(data []byte) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, nil
}

// generateMipChain scales the base image down to every mip level until 1x1,
// largest first, with dimensions halved (floored, minimum 1) per level. Each
// level is an independent scale of the base, so levels are computed in
// parallel on the mip pool; the call joins before returning. A 1x1 base has
// no chain and returns nil.
func (l *loader) generateMipChain(base *image.RGBA) [][]byte {
	type extent struct{ w, h int }

	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	var levels []extent
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		levels = append(levels, extent{w: w, h: h})
	}
	if len(levels) == 0 {
		return nil
	}

	mips := make([][]byte, len(levels))
	var wg sync.WaitGroup
	for i, level := range levels {
		wg.Add(1)
		idx, dim := i, level // capture for closure
		l.mipPool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				dst := image.NewRGBA(image.Rect(0, 0, dim.w, dim.h))
				draw.BiLinear.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
				mips[idx] = dst.Pix
				return nil, nil
			},
		})
	}
	wg.Wait()

	return mips
}
