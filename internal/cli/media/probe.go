// Package media извлекает из файла изображения то, что нужно для записи библиотеки:
// MIME-тип, размеры и наличие альфа-канала.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"ImageLibrary/internal/cli/model"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for files the library does not accept.
var ErrUnsupported = errors.New("unsupported image type")

// Info — результат анализа файла.
type Info struct {
	MIMEType string
	Width    int
	Height   int
	HasAlpha bool
}

// DetectMIME sniffs content first and falls back to the file extension
// when the content is not recognised as an image.
func DetectMIME(name string, data []byte) string {
	if len(data) > 0 {
		m := mimetype.Detect(data)
		for ; m != nil; m = m.Parent() {
			if strings.HasPrefix(m.String(), "image/") {
				return strings.TrimSpace(strings.SplitN(m.String(), ";", 2)[0])
			}
		}
	}
	return model.MIMEFromName(name)
}

// Probe analyses the file. Dimensions come from EXIF when present, otherwise the
// image is decoded. SVG has no raster size and reports 0x0.
func Probe(name string, data []byte) (Info, error) {
	if !model.IsSupportedImage(name) {
		return Info{}, fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupported)
	}
	info := Info{MIMEType: DetectMIME(name, data)}
	if info.MIMEType == "image/svg+xml" {
		return info, nil
	}

	if w, h, ok := exifDimensions(data); ok {
		info.Width, info.Height = w, h
		info.HasAlpha = alphaByType(info.MIMEType)
		return info, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		// файл принимается и без размеров: бэкенд хранит то, что ему прислали
		info.HasAlpha = alphaByType(info.MIMEType)
		return info, nil
	}
	b := img.Bounds()
	info.Width, info.Height = b.Dx(), b.Dy()
	info.HasAlpha = hasAlpha(img, info.MIMEType)
	return info, nil
}

func exifDimensions(data []byte) (int, int, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	wt, err := x.Get(exif.PixelXDimension)
	if err != nil {
		return 0, 0, false
	}
	ht, err := x.Get(exif.PixelYDimension)
	if err != nil {
		return 0, 0, false
	}
	w, err := wt.Int(0)
	if err != nil {
		return 0, 0, false
	}
	h, err := ht.Int(0)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func hasAlpha(img image.Image, mimeType string) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return alphaByType(mimeType)
}

func alphaByType(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
