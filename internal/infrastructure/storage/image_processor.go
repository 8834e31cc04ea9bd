package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"directory-backend/internal/media"
)

// ImageProcessor implements media.Compressor with disintegration/imaging.
type ImageProcessor struct{}

var _ media.Compressor = (*ImageProcessor)(nil)

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

var allowedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// Compress validates the raw bytes and re-encodes them under the
// policy: downscale to fit the max dimension, encode to the target
// format at the configured quality. It only re-encodes, never
// interprets content.
func (p *ImageProcessor) Compress(ctx context.Context, data []byte, policy media.Policy) (*media.Compressed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if policy.MaxBytes > 0 && int64(len(data)) > policy.MaxBytes {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", policy.MaxBytes)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid image data: %w", err)
	}
	if !allowedFormats[format] {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if policy.MaxDimensionPx > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > policy.MaxDimensionPx || bounds.Dy() > policy.MaxDimensionPx {
			img = imaging.Fit(img, policy.MaxDimensionPx, policy.MaxDimensionPx, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	switch policy.TargetFormat {
	case "png":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		return &media.Compressed{Data: buf.Bytes(), ContentType: "image/png", Ext: "png"}, nil
	default:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(policy.Quality)); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		return &media.Compressed{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: "jpg"}, nil
	}
}
