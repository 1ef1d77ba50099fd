// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/decred/slog"
	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"

	"github.com/ik5/sndsub/audio"
	"github.com/ik5/sndsub/formats/aiff"
	"github.com/ik5/sndsub/formats/mp3"
	"github.com/ik5/sndsub/formats/snd"
	"github.com/ik5/sndsub/formats/vorbis"
	"github.com/ik5/sndsub/formats/wav"
)

// DefaultExtension is appended to names without one.
const DefaultExtension = ".SND"

// DefaultRegistry knows every resource format of the game.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("snd", snd.Decoder{})
	r.Register("wav", wav.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	return r
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// ResourceName maps a logical sound name to its file name.
func ResourceName(name string) string {
	name = normalizeName(name)
	if name != "" && path.Ext(name) == "" {
		name += DefaultExtension
	}
	return name
}

// Loader resolves logical names against a resource tree and keeps the
// raw bytes of everything it read.
type Loader struct {
	fsys       fs.FS
	registry   *audio.Registry
	fallback   string
	rate       int
	maxPreload int
	limit      int64
	log        slog.Logger

	mu       sync.Mutex
	raw      map[string][]byte
	rawBytes int64
}

// NewLoader reads resources from fsys. A nil registry means
// DefaultRegistry.
func NewLoader(fsys fs.FS, registry *audio.Registry, cfg Config) *Loader {
	if registry == nil {
		registry = DefaultRegistry()
	}

	fallback := ""
	if cfg.FallbackName != "" {
		fallback = ResourceName(cfg.FallbackName)
	}

	return &Loader{
		fsys:       fsys,
		registry:   registry,
		fallback:   fallback,
		rate:       cfg.SampleRate,
		maxPreload: max(cfg.MaxPreload, 1),
		limit:      cfg.RawCacheBytes,
		log:        cfg.logger(),
		raw:        make(map[string][]byte),
	}
}

// ReadFile returns the bytes of a resolved file name, from the cache when
// possible.
func (l *Loader) ReadFile(file string) ([]byte, error) {
	l.mu.Lock()
	data, ok := l.raw[file]
	l.mu.Unlock()
	if ok {
		return data, nil
	}

	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.raw[file]; !ok && (l.limit == 0 || l.rawBytes+int64(len(data)) <= l.limit) {
		l.raw[file] = data
		l.rawBytes += int64(len(data))
	}

	return data, nil
}

// Forget drops a file from the raw cache.
func (l *Loader) Forget(file string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if data, ok := l.raw[file]; ok {
		l.rawBytes -= int64(len(data))
		delete(l.raw, file)
	}
}

// Cached reports the number and total size of cached files.
func (l *Loader) Cached() (int, int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.raw), l.rawBytes
}

// Open decodes name, or the fallback resource when name cannot be
// played. It returns the resolved file that was opened.
func (l *Loader) Open(name string) (audio.Source, string, int, error) {
	file := ResourceName(name)
	src, size, err := l.openFile(file)
	if err == nil {
		return src, file, size, nil
	}

	if l.fallback == "" || l.fallback == file {
		return nil, file, 0, fmt.Errorf("%s: %w", file, errors.Join(ErrUnavailable, err))
	}

	l.log.Warnf("Sound %s unavailable (%v), trying %s", file, err, l.fallback)
	src, size, ferr := l.openFile(l.fallback)
	if ferr != nil {
		return nil, file, 0, fmt.Errorf("%s: %w", file, errors.Join(ErrUnavailable, err, ferr))
	}

	return src, l.fallback, size, nil
}

func (l *Loader) openFile(file string) (audio.Source, int, error) {
	dec, err := l.registry.Lookup(file)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", file, err)
	}

	data, err := l.ReadFile(file)
	if err != nil {
		return nil, 0, err
	}

	src, err := dec.Decode(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", file, err)
	}

	return src, len(data), nil
}

// open wraps Open into a block stream at the engine rate.
func (l *Loader) open(name string) (stream, string, int, error) {
	src, file, size, err := l.Open(name)
	if err != nil {
		return nil, file, 0, err
	}
	return newStream(src, l.rate), file, size, nil
}

// Preload reads the named sounds into the raw cache, at most
// Config.MaxPreload at a time. Missing resources are reported together.
func (l *Loader) Preload(ctx context.Context, names ...string) error {
	swg := sizedwaitgroup.New(l.maxPreload)

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, name := range names {
		if err := swg.AddWithContext(ctx); err != nil {
			break
		}
		go func(file string) {
			defer swg.Done()
			if _, err := l.ReadFile(file); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(ResourceName(name))
	}
	swg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	n, size := l.Cached()
	l.log.Debugf("Preloaded %d sounds, raw cache %d files, %s", len(names), n, humanize.IBytes(uint64(size)))
	return errors.Join(errs...)
}
