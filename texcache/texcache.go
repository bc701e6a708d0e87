// Package texcache loads and caches CPU-side textures for the rasterizer.
// Decoded pixels are RGBA8 packed little-endian (byte order r, g, b, a), the
// same layout the framebuffer uses, so texels modulate straight into it.
// PNG decoding comes from the standard library and BMP from golang.org/x/image.
package texcache

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/softrast/softrast/render"
)

// Texture is one cached texture's pixels.
type Texture struct {
	Pixels []uint32
	W      uint32
	H      uint32
}

// Ref returns a component referencing this texture.
func (t *Texture) Ref() render.TextureRef {
	return render.TextureRef{Pixels: t.Pixels, W: t.W, H: t.H}
}

// Cache maps keys to decoded textures. Loading the same key again returns
// the cached entry without touching the decoder. A Cache is not safe for
// concurrent mutation; load everything before rendering starts.
type Cache struct {
	textures map[string]*Texture
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{textures: make(map[string]*Texture)}
}

// Get returns the texture stored under key.
func (c *Cache) Get(key string) (*Texture, bool) {
	t, ok := c.textures[key]
	return t, ok
}

// LoadFile decodes the image at path (PNG or BMP) and caches it under key.
func (c *Cache) LoadFile(key, path string) (*Texture, error) {
	if t, ok := c.textures[key]; ok {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texcache: read %s: %w", path, err)
	}
	return c.LoadMemory(key, data)
}

// LoadMemory decodes an in-memory image and caches it under key.
func (c *Cache) LoadMemory(key string, data []byte) (*Texture, error) {
	if t, ok := c.textures[key]; ok {
		return t, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texcache: decode %s: %w", key, err)
	}
	t := fromImage(img)
	c.textures[key] = t
	return t, nil
}

// Checkerboard generates a two-colour checkerboard texture and caches it
// under key. It is the fallback for assets whose texture failed to load.
func (c *Cache) Checkerboard(key string, w, h, cell uint32, c0, c1 uint32) *Texture {
	if t, ok := c.textures[key]; ok {
		return t
	}
	if cell == 0 {
		cell = 1
	}
	t := &Texture{Pixels: make([]uint32, w*h), W: w, H: h}
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				t.Pixels[y*w+x] = c0
			} else {
				t.Pixels[y*w+x] = c1
			}
		}
	}
	c.textures[key] = t
	return t
}

func fromImage(img image.Image) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &Texture{Pixels: make([]uint32, w*h), W: uint32(w), H: uint32(h)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, a := img.At(x, y).RGBA()
			t.Pixels[i] = (a>>8)<<24 | (bb>>8)<<16 | (g>>8)<<8 | (r >> 8)
			i++
		}
	}
	return t
}
