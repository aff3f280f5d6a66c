package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1920
	defaultJPEGQuality  = 85
)

var (
	ErrEmptyImage       = errors.New("media: empty image data")
	ErrUnsupportedImage = errors.New("media: unsupported image type")
	ErrImageTooLarge    = errors.New("media: image exceeds the upload size limit")
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload) (*Result, error)
}

// ScaleProcessor downsizes images whose longest side exceeds maxDimension.
// WebP has no encoder in x/image, so resized WebP uploads are stored as JPEG.
type ScaleProcessor struct {
	maxDimension int
	maxBytes     int64
	jpegQuality  int
}

func NewScaleProcessor(maxDimension int, maxBytes int64) *ScaleProcessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &ScaleProcessor{
		maxDimension: maxDimension,
		maxBytes:     maxBytes,
		jpegQuality:  defaultJPEGQuality,
	}
}

func (p *ScaleProcessor) Process(ctx context.Context, upload Upload) (*Result, error) {
	if upload.Reader == nil {
		return nil, ErrEmptyImage
	}
	if p.maxBytes > 0 && upload.Size > p.maxBytes {
		return nil, ErrImageTooLarge
	}
	reader := upload.Reader
	if p.maxBytes > 0 {
		reader = io.LimitReader(upload.Reader, p.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return nil, ErrImageTooLarge
	}

	contentType := normalizeContentType(upload.ContentType, upload.FileName)
	if _, ok := extensions[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}
	// Trust the decoded format over the declared one.
	contentType = "image/" + format
	if cfg.Width <= p.maxDimension && cfg.Height <= p.maxDimension {
		return &Result{
			Bytes:       data,
			ContentType: contentType,
			Extension:   extensions[contentType],
			Width:       cfg.Width,
			Height:      cfg.Height,
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}
	w, h := scaleToFit(cfg.Width, cfg.Height, p.maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	outType := contentType
	switch contentType {
	case "image/png":
		err = png.Encode(&buf, dst)
	default:
		outType = "image/jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("media: encode image: %w", err)
	}
	return &Result{
		Bytes:       buf.Bytes(),
		ContentType: outType,
		Extension:   extensions[outType],
		Width:       w,
		Height:      h,
		Resized:     true,
	}, nil
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func scaleToFit(width, height, maxDim int) (int, int) {
	if width >= height {
		return ensureMin(maxDim), ensureMin(int(math.Round(float64(height) * float64(maxDim) / float64(width))))
	}
	return ensureMin(int(math.Round(float64(width) * float64(maxDim) / float64(height)))), ensureMin(maxDim)
}

func ensureMin(value int) int {
	if value < 1 {
		return 1
	}
	return value
}

func normalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return strings.ToLower(mt)
	}
	return "application/octet-stream"
}
