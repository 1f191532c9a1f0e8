package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"

	"hnews/internal/scrape"
)

// ErrNoImage is returned when the page declares no preview image.
var ErrNoImage = errors.New("thumbnail: page has no preview image")

const defaultMaxWidth = 320

// Getter downloads a URL and reports its content type.
type Getter interface {
	Get(ctx context.Context, u string) ([]byte, string, error)
}

// Config controls where thumbnails go and how they are encoded.
type Config struct {
	OutputDir   string
	WebPQuality int
	CacheSize   int
	MaxWidth    int
}

// Generator turns a story link into a small WebP preview taken from the
// page's og:image. Results, including misses, are remembered per page URL.
type Generator struct {
	get      Getter
	dir      string
	quality  int
	maxWidth int
	cache    *lru.Cache[string, string]
}

// New creates a generator writing into cfg.OutputDir.
func New(get Getter, cfg Config) (*Generator, error) {
	if get == nil {
		return nil, errors.New("thumbnail: getter is required")
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: cache: %w", err)
	}
	quality := cfg.WebPQuality
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	width := cfg.MaxWidth
	if width <= 0 {
		width = defaultMaxWidth
	}
	dir := strings.TrimSpace(cfg.OutputDir)
	if dir == "" {
		dir = "thumbnails"
	}
	return &Generator{get: get, dir: dir, quality: quality, maxWidth: width, cache: cache}, nil
}

// ForPost writes the thumbnail of pageURL to <dir>/<postID>.webp and returns
// its path.
func (g *Generator) ForPost(ctx context.Context, postID int, pageURL string) (string, error) {
	if path, ok := g.cache.Get(pageURL); ok {
		if path == "" {
			return "", ErrNoImage
		}
		return path, nil
	}
	start := time.Now()
	imgURL, err := g.imageURL(ctx, pageURL)
	if errors.Is(err, ErrNoImage) {
		g.cache.Add(pageURL, "")
		return "", err
	}
	if err != nil {
		return "", err
	}
	raw, _, err := g.get.Get(ctx, imgURL)
	if err != nil {
		return "", fmt.Errorf("thumbnail: download image: %w", err)
	}
	img, err := decode(raw)
	if err != nil {
		return "", fmt.Errorf("thumbnail: decode %s: %w", imgURL, err)
	}
	img = shrink(img, g.maxWidth)

	path := filepath.Join(g.dir, fmt.Sprintf("%d.webp", postID))
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("thumbnail: create dir: %w", err)
	}
	err = writeFileAtomic(path, func(w io.Writer) error {
		return webp.Encode(w, img, &webp.Options{Quality: float32(g.quality)})
	})
	if err != nil {
		return "", err
	}
	g.cache.Add(pageURL, path)
	b := img.Bounds()
	slog.Info("thumbnail: saved", "id", postID, "path", path, "width", b.Dx(), "height", b.Dy(), "duration", time.Since(start))
	return path, nil
}

func (g *Generator) imageURL(ctx context.Context, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return "", fmt.Errorf("thumbnail: invalid url %q", pageURL)
	}
	page, _, err := g.get.Get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("thumbnail: download page: %w", err)
	}
	u, ok := scrape.OGImage(bytes.NewReader(page), base)
	if !ok {
		return "", ErrNoImage
	}
	return u, nil
}

func decode(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if w, werr := webp.Decode(bytes.NewReader(raw)); werr == nil {
		return w, nil
	}
	return nil, err
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it into place, so a failed write never leaves a partial file.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("thumbnail: create file: %w", err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("thumbnail: encode webp: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("thumbnail: close file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("thumbnail: rename file: %w", err)
	}
	return nil
}

// shrink scales img down to maxWidth with Catmull-Rom resampling.
func shrink(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Over, nil)
	return dst
}
