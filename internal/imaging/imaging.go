// Package imaging downscales screenshots before they are attached to a
// model prompt, to keep request payloads small.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"

	_ "image/png"
)

const base64Marker = ";base64,"

// Downscale decodes a base64 data-URL image, scales it down to at most
// maxWidth pixels wide (height follows the aspect ratio), and re-encodes it
// as a JPEG data URL. Images already narrow enough keep their dimensions.
// Callers treat any error as "forward the original image": this is a
// best-effort payload optimisation, not a correctness requirement.
func Downscale(dataURL string, maxWidth int) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stripDataURLPrefix(dataURL))
	if err != nil {
		return "", fmt.Errorf("decode base64 screenshot: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode screenshot image: %w", err)
	}

	bounds := img.Bounds()
	if maxWidth > 0 && bounds.Dx() > maxWidth {
		height := bounds.Dy() * maxWidth / bounds.Dx()
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func stripDataURLPrefix(s string) string {
	if !strings.HasPrefix(s, "data:image/") {
		return s
	}
	if i := strings.Index(s, base64Marker); i >= 0 {
		return s[i+len(base64Marker):]
	}
	return s
}
