package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/njprem/rs1500_BackEnd/internal/media"
)

type preparedImage struct {
	reader      io.Reader
	size        int64
	contentType string
	extension   string
}

// prepareImageForUpload runs upload through processor. Without a processor
// the bytes are stored untouched.
func prepareImageForUpload(ctx context.Context, processor media.Processor, upload media.Upload) (*preparedImage, error) {
	if processor == nil {
		ext := strings.ToLower(filepath.Ext(upload.FileName))
		return &preparedImage{reader: upload.Reader, size: upload.Size, contentType: upload.ContentType, extension: ext}, nil
	}
	result, err := processor.Process(ctx, upload)
	if err != nil {
		return nil, imageErr(err)
	}
	return &preparedImage{
		reader:      bytes.NewReader(result.Bytes),
		size:        int64(len(result.Bytes)),
		contentType: result.ContentType,
		extension:   result.Extension,
	}, nil
}

func imageErr(err error) error {
	switch {
	case errors.Is(err, media.ErrEmptyImage):
		return detail(ErrValidation, "No file uploaded.")
	case errors.Is(err, media.ErrUnsupportedImage):
		return detail(ErrValidation, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	case errors.Is(err, media.ErrImageTooLarge):
		return detail(ErrValidation, "Image exceeds the upload size limit.")
	}
	return err
}
