package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, alpha uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: alpha})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestProbe_PNGWithAlpha(t *testing.T) {
	info, err := Probe("icon.png", pngBytes(t, 40, 20, 128))
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.MIMEType)
	assert.Equal(t, 40, info.Width)
	assert.Equal(t, 20, info.Height)
	assert.True(t, info.HasAlpha)
}

func TestProbe_OpaquePNG(t *testing.T) {
	info, err := Probe("flat.png", pngBytes(t, 3, 3, 255))
	require.NoError(t, err)
	assert.False(t, info.HasAlpha)
}

func TestProbe_JPEG(t *testing.T) {
	info, err := Probe("photo.JPG", jpegBytes(t, 16, 9))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", info.MIMEType)
	assert.Equal(t, 16, info.Width)
	assert.Equal(t, 9, info.Height)
	assert.False(t, info.HasAlpha)
}

func TestProbe_SVGHasNoRasterSize(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`)
	info, err := Probe("logo.svg", svg)
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", info.MIMEType)
	assert.Zero(t, info.Width)
	assert.Zero(t, info.Height)
}

func TestProbe_UndecodableFallsBackToExtension(t *testing.T) {
	info, err := Probe("broken.webp", []byte("not really an image"))
	require.NoError(t, err)
	assert.Equal(t, "image/webp", info.MIMEType)
	assert.Zero(t, info.Width)
	assert.True(t, info.HasAlpha)
}

func TestProbe_RejectsUnsupported(t *testing.T) {
	_, err := Probe("notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDetectMIME_ContentWinsOverExtension(t *testing.T) {
	assert.Equal(t, "image/png", DetectMIME("misnamed.jpg", pngBytes(t, 1, 1, 255)))
	assert.Equal(t, "image/gif", DetectMIME("empty.gif", nil))
}

func TestPreviews_Lifecycle(t *testing.T) {
	p, err := NewPreviews("", nil)
	require.NoError(t, err)

	path, err := p.Create(-1, pngBytes(t, 600, 300, 255))
	require.NoError(t, err)
	f, err := os.Open(path)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(f)
	_ = f.Close()
	require.NoError(t, err)
	assert.Equal(t, PreviewSize, cfg.Width)
	assert.Equal(t, PreviewSize, cfg.Height)

	// повторный Create заменяет хэндл и удаляет старый файл
	path2, err := p.Create(-1, pngBytes(t, 10, 10, 255))
	require.NoError(t, err)
	assert.NoFileExists(t, path)
	assert.Equal(t, 1, p.Len())

	p.Release(-1)
	assert.NoFileExists(t, path2)
	_, ok := p.Path(-1)
	assert.False(t, ok)

	_, err = p.Create(-2, pngBytes(t, 5, 5, 255))
	require.NoError(t, err)
	dir := p.dir
	require.NoError(t, p.Close())
	assert.Equal(t, 0, p.Len())
	assert.NoDirExists(t, dir)
}

func TestPreviews_CreateRejectsUndecodable(t *testing.T) {
	p, err := NewPreviews(t.TempDir(), nil)
	require.NoError(t, err)
	_, err = p.Create(-1, []byte("<svg/>"))
	assert.Error(t, err)
	assert.Equal(t, 0, p.Len())
	require.NoError(t, p.Close())
}
