// Package images detects type and dimensions of asset files without fully
// decoding them.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const SVGMime = "image/svg+xml"

var ErrUnknownFormat = errors.New("unknown image format")

// Info describes probed image. Zero dimensions mean they could not be
// determined, for example SVG without viewBox.
type Info struct {
	MIME   string
	Width  int
	Height int
}

func isSVG(data []byte, name string) bool {
	if strings.EqualFold(filepath.Ext(name), ".svg") {
		return true
	}
	head := data[:min(len(data), 512)]
	return bytes.Contains(head, []byte("<svg"))
}

// Probe sniffs image type from content, name is only used as a hint for
// formats without magic numbers.
func Probe(data []byte, name string) (Info, error) {
	if len(data) == 0 {
		return Info{}, fmt.Errorf("empty file: %w", ErrUnknownFormat)
	}

	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown {
		if isSVG(data, name) {
			return probeSVG(data)
		}
		return Info{}, ErrUnknownFormat
	}
	if !filetype.IsImage(data) {
		return Info{MIME: kind.MIME.Value}, fmt.Errorf("%s is not an image: %w", kind.MIME.Value, ErrUnknownFormat)
	}

	info := Info{MIME: kind.MIME.Value}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// type is known, dimensions are not
		return info, fmt.Errorf("unable to decode %s header: %w", kind.MIME.Value, err)
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return info, nil
}

func probeSVG(data []byte) (Info, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return Info{MIME: SVGMime}, fmt.Errorf("unable to parse svg: %w", err)
	}
	return Info{
		MIME:   SVGMime,
		Width:  int(math.Ceil(icon.ViewBox.W)),
		Height: int(math.Ceil(icon.ViewBox.H)),
	}, nil
}
