package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const DefaultJPEGQuality = 85

// Normalizer shrinks images whose longer side exceeds MaxDimension and
// re-encodes them as JPEG. A zero MaxDimension disables it.
type Normalizer struct {
	MaxDimension int
	Quality      int
}

// Normalize returns data unchanged when it is disabled, when data is not a
// decodable image, or when the image already fits.
func (n Normalizer) Normalize(data []byte) ([]byte, error) {
	if n.MaxDimension <= 0 {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, nil
	}
	b := img.Bounds()
	if b.Dx() <= n.MaxDimension && b.Dy() <= n.MaxDimension {
		return data, nil
	}

	q := n.Quality
	if q <= 0 {
		q = DefaultJPEGQuality
	}

	resized := imaging.Fit(img, n.MaxDimension, n.MaxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(q)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
