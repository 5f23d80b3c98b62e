package imagecodec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"tryon/internal/domain"
)

const (
	DefaultMaxDimension = 1024
	DefaultJPEGQuality  = 85

	fallbackMediaType = "image/jpeg"
)

var mediaTypeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Codec loads images and prepares them for upload to the generation service.
type Codec struct {
	MaxDimension int
	Quality      int
}

// New returns a Codec bounded by maxDimension pixels on the longer side.
func New(maxDimension int) *Codec {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Codec{MaxDimension: maxDimension, Quality: DefaultJPEGQuality}
}

// Load returns the raw bytes of src with their media type. Dimensions are
// filled in when the format is decodable.
func (c *Codec) Load(src Source) (domain.Image, error) {
	data, err := src.Read()
	if err != nil {
		return domain.Image{}, err
	}
	img := domain.Image{Data: data, MIMEType: MediaType(src.Name(), data)}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	}
	return img, nil
}

// EncodeForTransport loads src and downsamples it when its longer side
// exceeds MaxDimension. Images already within bounds are returned unmodified.
func (c *Codec) EncodeForTransport(src Source) (domain.Image, error) {
	data, err := src.Read()
	if err != nil {
		return domain.Image{}, err
	}
	return c.Reencode(src.Name(), data)
}

// Reencode applies the transport rule of EncodeForTransport to in-memory bytes.
func (c *Codec) Reencode(name string, data []byte) (domain.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.Image{}, fmt.Errorf("decode %s: %v: %w", displayName(name), err, domain.ErrInvalidImage)
	}
	if max(cfg.Width, cfg.Height) <= c.maxDimension() {
		return domain.Image{
			Data:     data,
			MIMEType: MediaType(name, data),
			Width:    cfg.Width,
			Height:   cfg.Height,
		}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Image{}, fmt.Errorf("decode %s: %v: %w", displayName(name), err, domain.ErrInvalidImage)
	}
	width, height := fitWithin(cfg.Width, cfg.Height, c.maxDimension())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// JPEG has no alpha channel; transparent and palette pixels are flattened
	// onto white.
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.quality()}); err != nil {
		return domain.Image{}, fmt.Errorf("encode %s: %w", displayName(name), err)
	}
	return domain.Image{
		Data:     buf.Bytes(),
		MIMEType: "image/jpeg",
		Width:    width,
		Height:   height,
	}, nil
}

func (c *Codec) maxDimension() int {
	if c == nil || c.MaxDimension <= 0 {
		return DefaultMaxDimension
	}
	return c.MaxDimension
}

func (c *Codec) quality() int {
	if c == nil || c.Quality <= 0 || c.Quality > 100 {
		return DefaultJPEGQuality
	}
	return c.Quality
}

// fitWithin scales (w, h) to fit inside a bound×bound box keeping the aspect
// ratio. Neither side collapses below one pixel.
func fitWithin(w, h, bound int) (int, int) {
	if w >= h {
		nh := int(float64(h)*float64(bound)/float64(w) + 0.5)
		return bound, max(nh, 1)
	}
	nw := int(float64(w)*float64(bound)/float64(h) + 0.5)
	return max(nw, 1), bound
}

// MediaType resolves the media type of an image from its file extension,
// falling back to content sniffing and finally to image/jpeg.
func MediaType(name string, data []byte) string {
	if mt, ok := mediaTypeByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	if len(data) > 0 {
		detected := mimetype.Detect(data)
		for m := detected; m != nil; m = m.Parent() {
			if strings.HasPrefix(m.String(), "image/") {
				return m.String()
			}
		}
	}
	return fallbackMediaType
}

func displayName(name string) string {
	if name == "" {
		return "image"
	}
	return filepath.Base(name)
}
