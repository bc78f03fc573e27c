package media

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PreviewSize — сторона квадрата, в который вписывается превью.
const PreviewSize = 256

// Previews хранит файлы превью для staged-записей. Каждый хэндл живёт,
// пока запись не загружена, не вытеснена Load или пока реестр не закрыт.
type Previews struct {
	mu      sync.Mutex
	dir     string
	ownDir  bool
	handles map[int64]string
	log     *zap.SugaredLogger
}

// NewPreviews creates a registry in dir. Empty dir means a fresh temp directory
// that is removed on Close.
func NewPreviews(dir string, log *zap.SugaredLogger) (*Previews, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	own := false
	if dir == "" {
		d, err := os.MkdirTemp("", "ilcli-previews-*")
		if err != nil {
			return nil, fmt.Errorf("previews dir: %w", err)
		}
		dir, own = d, true
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("previews dir: %w", err)
	}
	return &Previews{dir: dir, ownDir: own, handles: make(map[int64]string), log: log}, nil
}

// Create renders a thumbnail of data and binds it to id. An existing handle
// for the same id is released first.
func (p *Previews) Create(id int64, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("preview %d: %w", id, err)
	}
	thumb := imaging.Thumbnail(img, PreviewSize, PreviewSize, imaging.Lanczos)
	path := filepath.Join(p.dir, uuid.NewString()+".png")
	if err := imaging.Save(thumb, path); err != nil {
		return "", fmt.Errorf("preview %d: %w", id, err)
	}

	p.mu.Lock()
	old, had := p.handles[id]
	p.handles[id] = path
	p.mu.Unlock()
	if had {
		p.remove(old)
	}
	return path, nil
}

// Path returns the preview file of id, if any.
func (p *Previews) Path(id int64) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	path, ok := p.handles[id]
	return path, ok
}

// Release drops the handle of id. Unknown ids are ignored.
func (p *Previews) Release(id int64) {
	p.mu.Lock()
	path, ok := p.handles[id]
	delete(p.handles, id)
	p.mu.Unlock()
	if ok {
		p.remove(path)
	}
}

// ReleaseAll drops every handle.
func (p *Previews) ReleaseAll() {
	p.mu.Lock()
	paths := make([]string, 0, len(p.handles))
	for _, path := range p.handles {
		paths = append(paths, path)
	}
	p.handles = make(map[int64]string)
	p.mu.Unlock()
	for _, path := range paths {
		p.remove(path)
	}
}

// Len returns the number of live handles.
func (p *Previews) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}

// Close releases all handles and removes the temp directory it created.
func (p *Previews) Close() error {
	if p == nil {
		return nil
	}
	p.ReleaseAll()
	if p.ownDir {
		return os.RemoveAll(p.dir)
	}
	return nil
}

func (p *Previews) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.log.Warnw("preview cleanup failed", "path", path, "error", err)
	}
}
