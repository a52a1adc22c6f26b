// Package post manages the per-post output directories under the data dir:
// one timestamped directory per post holding cover.png, music.mp3, video.mp4
// and the post.json metadata.
package post

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	MetaFile  = "post.json"
	CoverFile = "cover.png"
	MusicFile = "music.mp3"
	VideoFile = "video.mp4"
)

const dirTimeFormat = "20060102_150405"

// Meta is the metadata persisted beside the rendered files.
type Meta struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Cover string `json:"cover"`
}

// Store creates and finds post directories. Directory names sort
// chronologically because they start with the creation timestamp.
type Store struct {
	Dir string
	// Now is the clock, injectable for tests.
	Now func() time.Time
}

// CreatePostDir makes a fresh directory for text, named from the timestamp
// and the sanitized first line.
func (s *Store) CreatePostDir(text string) (string, error) {
	if s.Dir == "" {
		return "", errors.New("数据目录未配置")
	}
	name := s.now().Format(dirTimeFormat)
	if slug := SanitizeDirname(text); slug != "" {
		name += "_" + slug
	}
	dir := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "创建目录 %s", dir)
	}
	return dir, nil
}

// WriteMeta persists post.json into dir. Chinese text is written as-is, not
// escaped.
func (s *Store) WriteMeta(dir string, meta Meta) error {
	f, err := os.Create(filepath.Join(dir, MetaFile))
	if err != nil {
		return errors.Wrap(err, "写入 post.json")
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(meta), "写入 post.json")
}

// ReadMeta loads post.json from dir.
func (s *Store) ReadMeta(dir string) (Meta, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return Meta{}, errors.Wrap(err, "读取 post.json")
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, errors.Wrap(err, "解析 post.json")
	}
	return meta, nil
}

// Latest returns the newest post directory, by name.
func (s *Store) Latest() (string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", errors.Wrapf(err, "读取数据目录 %s", s.Dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", errors.New("还没有任何帖子，请先生成封面")
	}
	sort.Strings(names)
	return filepath.Join(s.Dir, names[len(names)-1]), nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var (
	dirHostileChars = regexp.MustCompile(`[<>:"/\\|?*\s]`)
	underscoreRuns  = regexp.MustCompile(`_+`)
)

// SanitizeDirname turns the first line of text into a safe directory slug:
// path-hostile characters and whitespace become underscores, runs collapse,
// and the result is capped at 40 runes.
func SanitizeDirname(text string) string {
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	line = dirHostileChars.ReplaceAllString(line, "_")
	line = underscoreRuns.ReplaceAllString(line, "_")
	runes := []rune(line)
	if len(runes) > 40 {
		runes = runes[:40]
	}
	return strings.Trim(string(runes), "_")
}
