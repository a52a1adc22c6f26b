package douyin

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// PostDescriptor is everything one image-post run publishes. Validate once,
// then treat as read-only; a descriptor belongs to exactly one run.
type PostDescriptor struct {
	// Images are the cover image paths, uploaded in exactly this order.
	Images []string
	// Title is optional; empty leaves the field untouched.
	Title string
	// Description is optional free text entered below the title.
	Description string
	// Hotspot is an optional trending keyword. When set, a platform
	// suggestion must be selected or the run fails.
	Hotspot string
	// UseMusic applies the first recommended platform track.
	UseMusic bool
	// Debug pauses the run before the submit click until the operator
	// confirms.
	Debug bool
}

// NewPostDescriptor applies the defaults: background music on, debug off.
func NewPostDescriptor(images []string) PostDescriptor {
	return PostDescriptor{Images: images, UseMusic: true}
}

// Validate checks the descriptor before any browser work starts.
func (d PostDescriptor) Validate() error {
	if len(d.Images) == 0 {
		return errors.New("至少需要一张图片")
	}
	for _, img := range d.Images {
		if strings.TrimSpace(img) == "" {
			return errors.New("图片路径为空")
		}
		if _, err := os.Stat(img); err != nil {
			return errors.Errorf("图片不存在: %s", img)
		}
	}
	return nil
}

// VideoDescriptor is one narrated-video publish on the upload page.
type VideoDescriptor struct {
	Video       string
	Title       string
	Description string
	Hotspot     string
}

func (d VideoDescriptor) Validate() error {
	if strings.TrimSpace(d.Video) == "" {
		return errors.New("视频路径为空")
	}
	if _, err := os.Stat(d.Video); err != nil {
		return errors.Errorf("视频不存在: %s", d.Video)
	}
	return nil
}
