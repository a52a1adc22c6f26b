package feed

import (
	"fmt"
	"strings"
)

// ScriptTitle heads every generated share video.
const ScriptTitle = "今日网络见闻"

const (
	scriptIntro = "大家好，今天在网上看到几个有意思的事情，分享给大家。"
	scriptOutro = "好了，今天就分享到这里，觉得有意思的话点个赞吧！"
)

// BuildScript renders the selected posts as a narration script: greeting,
// numbered items, sign-off. Posts whose content sanitizes away are skipped
// and the numbering stays contiguous.
func BuildScript(tweets []Tweet) (title, script string) {
	if len(tweets) == 0 {
		return "", ""
	}
	lines := []string{scriptIntro}
	n := 0
	for _, t := range tweets {
		content := Sanitize(t.Text())
		if content == "" {
			continue
		}
		n++
		lines = append(lines, fmt.Sprintf("第%d个，%s", n, content))
	}
	lines = append(lines, scriptOutro)
	return ScriptTitle, strings.Join(lines, "\n")
}
