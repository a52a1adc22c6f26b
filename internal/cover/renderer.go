// Package cover renders the 1080x1920 text cover used as the first image of
// a post: white text on pure black, first line as the title.
package cover

import (
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	Width  = 1080
	Height = 1920
	margin = 80
)

// Sizes start generous and shrink together until the block fits vertically.
const (
	titleSizeStart = 90
	titleSizeMin   = 40
	bodyScale      = 0.67
	spacingScale   = 0.4
	gapScale       = 0.67
)

// fontPaths are probed in order; the wqy and Noto faces cover CJK, DejaVu is
// the latin fallback.
var fontPaths = []string{
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// Renderer draws covers. The zero value probes the system font paths; when
// none exists it falls back to the built-in bitmap face instead of failing.
type Renderer struct {
	// FontPath overrides font discovery when set.
	FontPath string
	Logger   *logrus.Entry
}

type layout struct {
	titleFace  font.Face
	bodyFace   font.Face
	titleLines []string
	bodyLines  []string
	titleH     float64
	bodyH      float64
	spacing    float64
	gap        float64
	total      float64
}

// Render draws text onto a fresh canvas and writes it as PNG to out. The
// first line becomes the title, the remaining non-blank lines the body.
func (r *Renderer) Render(text, out string) error {
	title, body := splitCover(text)
	if title == "" && len(body) == 0 {
		return errors.New("封面文字为空")
	}

	fontPath := r.FontPath
	if fontPath == "" {
		fontPath = findFont()
	}
	if r.Logger != nil {
		if fontPath == "" {
			r.Logger.Warn("未找到中文字体，使用内置字体")
		} else {
			r.Logger.Debugf("封面字体: %s", fontPath)
		}
	}

	dc := gg.NewContext(Width, Height)
	maxTextWidth := float64(Width - 2*margin)
	maxContentHeight := float64(Height - 2*margin)

	titleSize, bodySize, spacing, gap := titleSizeStart, 60, 40, 60
	var lay layout
	for {
		var err error
		lay, err = computeLayout(dc, fontPath, title, body, titleSize, bodySize, spacing, gap, maxTextWidth)
		if err != nil {
			return err
		}
		if lay.total <= maxContentHeight || titleSize <= titleSizeMin {
			break
		}
		titleSize -= 10
		bodySize = int(float64(titleSize) * bodyScale)
		spacing = int(float64(titleSize) * spacingScale)
		gap = int(float64(titleSize) * gapScale)
	}

	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)

	y := (float64(Height) - lay.total) / 2
	dc.SetFontFace(lay.titleFace)
	for _, line := range lay.titleLines {
		dc.DrawStringAnchored(line, float64(Width)/2, y+lay.titleH/2, 0.5, 0.5)
		y += lay.titleH + lay.spacing
	}
	if len(lay.titleLines) > 0 && len(lay.bodyLines) > 0 {
		y += lay.gap - lay.spacing
	}
	dc.SetFontFace(lay.bodyFace)
	for _, line := range lay.bodyLines {
		dc.DrawStringAnchored(line, float64(Width)/2, y+lay.bodyH/2, 0.5, 0.5)
		y += lay.bodyH + lay.spacing
	}

	return errors.Wrapf(dc.SavePNG(out), "保存封面 %s", out)
}

// computeLayout wraps the text at the given sizes and measures the block.
func computeLayout(dc *gg.Context, fontPath, title string, body []string, titleSize, bodySize, spacing, gap int, maxTextWidth float64) (layout, error) {
	titleFace, err := loadFace(fontPath, float64(titleSize))
	if err != nil {
		return layout{}, err
	}
	bodyFace, err := loadFace(fontPath, float64(bodySize))
	if err != nil {
		return layout{}, err
	}

	lay := layout{
		titleFace: titleFace,
		bodyFace:  bodyFace,
		titleH:    faceHeight(titleFace),
		bodyH:     faceHeight(bodyFace),
		spacing:   float64(spacing),
		gap:       float64(gap),
	}

	dc.SetFontFace(titleFace)
	if title != "" {
		lay.titleLines = wrapRunes(title, maxTextWidth, func(s string) float64 {
			w, _ := dc.MeasureString(s)
			return w
		})
	}
	dc.SetFontFace(bodyFace)
	for _, line := range body {
		lay.bodyLines = append(lay.bodyLines, wrapRunes(line, maxTextWidth, func(s string) float64 {
			w, _ := dc.MeasureString(s)
			return w
		})...)
	}

	for range lay.titleLines {
		lay.total += lay.titleH + lay.spacing
	}
	if len(lay.titleLines) > 0 && len(lay.bodyLines) > 0 {
		lay.total += lay.gap - lay.spacing
	}
	for range lay.bodyLines {
		lay.total += lay.bodyH + lay.spacing
	}
	lay.total -= lay.spacing
	return lay, nil
}

// wrapRunes breaks text rune by rune so CJK, which has no word boundaries,
// fills each line up to maxWidth.
func wrapRunes(text string, maxWidth float64, width func(string) float64) []string {
	var lines []string
	var cur string
	for _, r := range text {
		test := cur + string(r)
		if width(test) <= maxWidth {
			cur = test
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = string(r)
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// splitCover separates the title line from the body lines, dropping blanks.
func splitCover(text string) (string, []string) {
	lines := strings.Split(text, "\n")
	title := strings.TrimSpace(lines[0])
	var body []string
	for _, l := range lines[1:] {
		if t := strings.TrimSpace(l); t != "" {
			body = append(body, t)
		}
	}
	return title, body
}

func loadFace(path string, points float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	face, err := gg.LoadFontFace(path, points)
	return face, errors.Wrapf(err, "load font %s", path)
}

func faceHeight(f font.Face) float64 {
	m := f.Metrics()
	return float64(m.Ascent+m.Descent) / 64
}

func findFont() string {
	for _, p := range fontPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
