package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// decoders available to DecodeImage
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrImageDecode is returned when stored photo bytes are not a known image format.
var ErrImageDecode = errors.New("image decode failed")

// DecodedImage is a profile photo ready for display.
type DecodedImage struct {
	Image  image.Image
	Format string
	Size   int
}

// Width and Height report the pixel dimensions of the image.
func (d *DecodedImage) Width() int  { return d.Image.Bounds().Dx() }
func (d *DecodedImage) Height() int { return d.Image.Bounds().Dy() }

// DecodeImage decodes raw photo bytes. Any failure, including empty input,
// is reported as ErrImageDecode.
func DecodeImage(data []byte) (*DecodedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrImageDecode)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	return &DecodedImage{Image: img, Format: format, Size: len(data)}, nil
}
