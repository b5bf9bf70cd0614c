package budopass

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font"
)

// Renderer rasterizes layout pages onto bitmap canvases and assembles them
// into one PDF. A5 portrait at 150dpi.
type Renderer struct {
	font *truetype.Font
}

const (
	pageWidthPx  = 874  // 148mm at 150dpi
	pageHeightPx = 1240 // 210mm at 150dpi
	pageWidthMM  = 148
	pageHeightMM = 210

	marginPx    = 70
	titleSize   = 28
	bodySize    = 16
	lineSpacing = 46
	dpi         = 150
)

func NewRenderer(fontPath string) (*Renderer, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read font %s: %v", ErrRender, fontPath, err)
	}
	f, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse font: %v", ErrRender, err)
	}
	return &Renderer{font: f}, nil
}

// Render rasterizes every page and binds them into a single PDF.
func (r *Renderer) Render(pages []Page) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: pageWidthMM, Ht: pageHeightMM},
	})

	for i, page := range pages {
		img, err := r.rasterize(page)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: png encode: %v", ErrRender, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, pageWidthMM, pageHeightMM, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: pdf output: %v", ErrRender, err)
	}
	return out.Bytes(), nil
}

// rasterize draws one page onto a white canvas: centered title, rule, then
// label/value lines.
func (r *Renderer) rasterize(page Page) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, pageWidthPx, pageHeightPx))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(dpi)
	c.SetFont(r.font)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.Black)
	c.SetHinting(font.HintingFull)

	c.SetFontSize(titleSize)
	if _, err := c.DrawString(page.Title, freetype.Pt(marginPx, marginPx+40)); err != nil {
		return nil, fmt.Errorf("%w: draw title: %v", ErrRender, err)
	}

	// Separator under the title.
	for x := marginPx; x < pageWidthPx-marginPx; x++ {
		img.Set(x, marginPx+60, color.Black)
	}

	c.SetFontSize(bodySize)
	y := marginPx + 60 + lineSpacing
	for _, line := range page.Lines {
		text := line.Value
		if line.Label != "" {
			text = line.Label + ": " + line.Value
		}
		if _, err := c.DrawString(text, freetype.Pt(marginPx, y)); err != nil {
			return nil, fmt.Errorf("%w: draw line: %v", ErrRender, err)
		}
		y += lineSpacing
	}

	return img, nil
}
