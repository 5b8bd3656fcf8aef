// Package icons resolves logical icon ids to files in an icon directory and
// serves them as PNG or transcoded WebP.
package icons

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// MaxSize bounds the ?size= rescale parameter in pixels.
const MaxSize = 256

const etagCap = 64

// ErrInvalidIcon is returned for ids or file names outside the icon namespace.
var ErrInvalidIcon = errors.New("invalid icon")

var idPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Store serves icons stored as <id>.png under Dir.
type Store struct {
	Dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the source file for an icon id.
func (s *Store) Path(id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIcon, id)
	}
	return filepath.Join(s.Dir, id+".png"), nil
}

// Exists reports whether the icon id has a source file.
func (s *Store) Exists(id string) bool {
	p, err := s.Path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Open decodes the icon image.
func (s *Store) Open(id string) (image.Image, error) {
	p, err := s.Path(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", id, err)
	}
	return img, nil
}

// Render writes the icon in the given format ("png" or "webp"), scaled so its
// longer side is size pixels. A zero size keeps the source dimensions.
func (s *Store) Render(w io.Writer, id, format string, size int) error {
	img, err := s.Open(id)
	if err != nil {
		return err
	}
	if size > 0 {
		img = scale(img, size)
	}

	switch format {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: 85})
	default:
		return fmt.Errorf("%w: format %q", ErrInvalidIcon, format)
	}
}

// ServeHTTP serves /icons/<id>.png and /icons/<id>.webp with an optional
// ?size= rescale.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, format, err := splitFile(path.Base(r.URL.Path))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size <= 0 || size > MaxSize {
			http.Error(w, "size must be between 1 and "+strconv.Itoa(MaxSize), http.StatusBadRequest)
			return
		}
	}

	src, _ := s.Path(id)
	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '-')
	buf = append(buf, format...)
	buf = strconv.AppendInt(buf, int64(size), 10)
	buf = append(buf, '"')
	etag := string(buf)

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/"+format)

	if format == "png" && size == 0 {
		http.ServeFile(w, r, src)
		return
	}

	if err := s.Render(w, id, format, size); err != nil {
		log.Error().Err(err).Str("icon", id).Str("format", format).Msg("Failed to render icon")
		http.Error(w, "failed to render icon", http.StatusInternalServerError)
	}
}

func splitFile(name string) (id, format string, err error) {
	ext := filepath.Ext(name)
	id = strings.TrimSuffix(name, ext)
	format = strings.TrimPrefix(ext, ".")
	if format != "png" && format != "webp" {
		return "", "", fmt.Errorf("%w: unsupported file %q", ErrInvalidIcon, name)
	}
	if !idPattern.MatchString(id) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIcon, id)
	}
	return id, format, nil
}

// scale fits img into a size x size box keeping its aspect ratio.
func scale(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}
	dw, dh := size, size
	if w > h {
		dh = max(1, h*size/w)
	} else if h > w {
		dw = max(1, w*size/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
