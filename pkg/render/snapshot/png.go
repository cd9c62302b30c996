package snapshot

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/render"
)

// MaxPixels bounds the size of a rendered PNG.
const MaxPixels = 40_000_000

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale   float64
	bodyLen int
}

// WithScale sets the pixel density (default 1).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGBodyLength caps the characters of body text per card. Zero hides it.
func WithPNGBodyLength(n int) PNGOption { return func(r *pngRenderer) { r.bodyLen = n } }

var (
	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	fontsErr  error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		bold, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// RenderPNG rasterizes s.
func RenderPNG(s render.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, bodyLen: 90}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("invalid scale %g", r.scale)
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	w, h := s.Size()
	pw, ph := math.Ceil(w*r.scale), math.Ceil(h*r.scale)
	if !(pw*ph <= MaxPixels) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png of %gx%g pixels exceeds %d", pw, ph, MaxPixels)
	}
	dc := gg.NewContext(int(pw), int(ph))
	dc.Scale(r.scale, r.scale)
	dc.SetHexColor(colorBackground)
	dc.Clear()

	for _, c := range s.Cards {
		r.drawCard(dc, c)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) drawCard(dc *gg.Context, c card.Snapshot) {
	st := c.Style
	if st.Opacity <= 0 {
		return
	}
	size := st.Size * render.Scale(st)
	xs, ys := render.Hexagon(st.X, st.Y, size)

	dc.Push()
	defer dc.Pop()

	dc.NewSubPath()
	dc.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		dc.LineTo(xs[i], ys[i])
	}
	dc.ClosePath()
	dc.SetColor(withAlpha(fillFor(c), st.Opacity))
	dc.FillPreserve()
	dc.SetColor(withAlpha(colorBorder, st.Opacity))
	dc.SetLineWidth(2)
	dc.Stroke()

	title, body := faceText(c)
	fontSize := math.Max(8, size/10)
	dc.SetFontFace(face(bold, fontSize))
	dc.SetColor(withAlpha(colorText, st.Opacity))
	dc.DrawStringAnchored(title, st.X, st.Y-fontSize/2, 0.5, 0.5)

	if r.bodyLen > 0 && body != "" && !st.Collapsed() {
		dc.SetFontFace(face(regular, fontSize*0.6))
		dc.SetColor(withAlpha(colorMuted, st.Opacity))
		dc.DrawStringWrapped(truncate(body, r.bodyLen), st.X, st.Y+fontSize, 0.5, 0, size*0.7, 1.3, gg.AlignCenter)
	}
}

func withAlpha(hex string, opacity float64) color.Color {
	var cr, cg, cb uint8
	fmt.Sscanf(hex, "#%02x%02x%02x", &cr, &cg, &cb)
	a := math.Max(0, math.Min(1, opacity))
	return color.NRGBA{R: cr, G: cg, B: cb, A: uint8(math.Round(a * 255))}
}
