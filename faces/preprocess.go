package faces

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Preprocess validates, decodes and normalizes an uploaded photo.
// The size check runs before any decoding is attempted. The decoded
// image is rotated upright according to its EXIF orientation, downscaled
// to maxDimension if needed and re-encoded as JPEG for the recognizer.
func Preprocess(raw []byte, maxBytes int64, maxDimension int) (*NormalizedImage, error) {
	if int64(len(raw)) > maxBytes {
		return nil, ErrImageTooLarge
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrInvalidImage
	}
	img = orientImage(raw, img)
	size := img.Bounds().Size()
	if size.X > maxDimension || size.Y > maxDimension {
		img = resize.Thumbnail(uint(maxDimension), uint(maxDimension), img, resize.Lanczos3)
		size = img.Bounds().Size()
	}
	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, ErrInvalidImage
	}
	return &NormalizedImage{
		Image:  img,
		JPEG:   buf.Bytes(),
		Width:  size.X,
		Height: size.Y,
	}, nil
}

// orientImage applies the EXIF orientation, if any. Phone cameras usually
// store the sensor image as-is and only set the orientation tag.
// Any metadata failure leaves the image unchanged.
func orientImage(raw []byte, img image.Image) image.Image {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
