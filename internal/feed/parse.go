package feed

import "strings"

// Tweet is one post reconstructed from OCR lines.
type Tweet struct {
	Author  string
	Content []string
}

// Text joins the content lines into one narration-ready string.
func (t Tweet) Text() string {
	return strings.Join(t.Content, " ")
}

// skipKeywords drop promotional and UI noise lines inside a post.
var skipKeywords = []string{"Ad", "广告", "Promoted", "Subscribe", "订阅", "关注", "Follow"}

// ParseTweets reconstructs posts from OCR text. A line mentioning an @handle
// together with a timestamp marker starts a new post; everything until the
// next such line is its content. Posts without content are dropped.
func ParseTweets(ocrText string) []Tweet {
	var tweets []Tweet
	var cur Tweet
	for _, line := range strings.Split(ocrText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isAuthorLine(line) {
			if len(cur.Content) > 0 {
				tweets = append(tweets, cur)
			}
			cur = Tweet{Author: line}
			continue
		}
		if cur.Author == "" {
			continue
		}
		if hasSkipKeyword(line) {
			continue
		}
		cur.Content = append(cur.Content, line)
	}
	if len(cur.Content) > 0 {
		tweets = append(tweets, cur)
	}
	return tweets
}

// isAuthorLine spots the "name @handle · 2h" pattern. OCR mangles the dot
// between handle and age, so any age marker counts.
func isAuthorLine(line string) bool {
	return strings.Contains(line, "@") && strings.ContainsAny(line, "·•hm")
}

func hasSkipKeyword(line string) bool {
	for _, kw := range skipKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
