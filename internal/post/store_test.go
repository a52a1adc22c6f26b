package post

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSanitizeDirname(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"今日网络见闻", "今日网络见闻"},
		{"今日 网络   见闻", "今日_网络_见闻"},
		{`标题<>:"/\|?*结束`, "标题_结束"},
		{"第一行\n第二行", "第一行"},
		{"  边缘 空白  ", "边缘_空白"},
		{strings.Repeat("长", 50), strings.Repeat("长", 40)},
		{"___", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SanitizeDirname(tc.in), "input %q", tc.in)
	}
}

func TestCreatePostDirNamesByTimestampAndSlug(t *testing.T) {
	store := &Store{
		Dir: t.TempDir(),
		Now: fixedClock(time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)),
	}

	dir, err := store.CreatePostDir("今日网络见闻\n正文")
	require.NoError(t, err)
	require.Equal(t, "20250314_150926_今日网络见闻", filepath.Base(dir))
	require.DirExists(t, dir)
}

func TestWriteMetaKeepsChineseReadable(t *testing.T) {
	store := &Store{Dir: t.TempDir()}
	dir, err := store.CreatePostDir("标题")
	require.NoError(t, err)

	require.NoError(t, store.WriteMeta(dir, Meta{Title: "标题", Body: "正文", Cover: CoverFile}))

	raw, err := os.ReadFile(filepath.Join(dir, MetaFile))
	require.NoError(t, err)
	require.Contains(t, string(raw), "标题")
	require.NotContains(t, string(raw), `\u`)

	var meta Meta
	require.NoError(t, json.Unmarshal(raw, &meta))
	require.Equal(t, "标题", meta.Title)
	require.Equal(t, "cover.png", meta.Cover)
}

func TestReadMetaRoundTrip(t *testing.T) {
	store := &Store{Dir: t.TempDir()}
	dir, err := store.CreatePostDir("x")
	require.NoError(t, err)
	require.NoError(t, store.WriteMeta(dir, Meta{Title: "a", Body: "b", Cover: "cover.png"}))

	meta, err := store.ReadMeta(dir)
	require.NoError(t, err)
	require.Equal(t, Meta{Title: "a", Body: "b", Cover: "cover.png"}, meta)
}

func TestLatestPicksNewestDirectory(t *testing.T) {
	root := t.TempDir()
	store := &Store{Dir: root}

	for _, name := range []string{
		"20250101_080000_旧帖",
		"20250301_090000_中间",
		"20250314_150926_最新",
	} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}
	// Stray files must not win even with a late-sorting name.
	require.NoError(t, os.WriteFile(filepath.Join(root, "99999999_999999_文件"), []byte("x"), 0o644))

	latest, err := store.Latest()
	require.NoError(t, err)
	require.Equal(t, "20250314_150926_最新", filepath.Base(latest))
}

func TestLatestEmptyStore(t *testing.T) {
	store := &Store{Dir: t.TempDir()}
	_, err := store.Latest()
	require.Error(t, err)
}

func TestCreatePostDirRequiresDir(t *testing.T) {
	store := &Store{}
	_, err := store.CreatePostDir("x")
	require.Error(t, err)
}
