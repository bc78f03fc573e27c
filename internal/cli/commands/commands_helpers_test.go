package commands

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ImageLibrary/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (база/настройки/превью) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	t.Setenv("TMPDIR", dir)
	db := filepath.Join(dir, "db")
	_ = os.MkdirAll(db, 0o700)
	t.Setenv("CLIENT_DB_PATH", db)
	return dir
}

// testConfig — конфиг клиента против backendURL с хранилищем в dir.
func testConfig(dir, backendURL string) *config.Config {
	return &config.Config{
		ServerURL:         backendURL,
		ClientDBPath:      filepath.Join(dir, "db"),
		SettingsFile:      filepath.Join(dir, "settings.yaml"),
		UploadConcurrency: 1,
		ListenAddr:        "127.0.0.1:0",
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 128})
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return p
}
