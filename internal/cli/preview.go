package cli

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// ramp runs from dark to light.
const ramp = "@%#*+=-:. "

// renderPreview scales img to width columns and maps luminance to ramp.
// Rows are halved because terminal cells are about twice as tall as wide.
func renderPreview(img image.Image, width int) string {
	b := img.Bounds()
	if b.Empty() || width <= 0 {
		return ""
	}
	if b.Dx() < width {
		width = b.Dx()
	}
	height := b.Dy() * width / b.Dx() / 2
	if height < 1 {
		height = 1
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	sb.Grow((width + 1) * height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := int(dst.GrayAt(x, y).Y)
			sb.WriteByte(ramp[v*(len(ramp)-1)/255])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
