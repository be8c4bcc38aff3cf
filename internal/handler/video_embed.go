package handler

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// 整行只有一个视频链接时才替换为播放器
	bareLinkPattern      = regexp.MustCompile(`^<?(https?://\S+?)>?$`)
	embedSrcPattern      = regexp.MustCompile(`^https://(?:www\.youtube-nocookie\.com/embed/|player\.vimeo\.com/video/)`)
	youTubeOffsetPattern = regexp.MustCompile(`(?i)(\d+)([hms])`)
)

// newContentSanitizer 在 UGC 策略基础上放行文章内的视频播放器。
func newContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video").OnElements("div")
	policy.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

// expandVideoLinks 把独占一行的 YouTube 或 Vimeo 链接替换为 iframe，代码块内的内容保持不变。
func expandVideoLinks(markdown string) string {
	lines := strings.Split(markdown, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			switch {
			case fence == "":
				fence = trimmed[:3]
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}
		match := bareLinkPattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		if src, platform, ok := videoEmbedURL(match[1]); ok {
			lines[i] = videoEmbedHTML(src, platform)
		}
	}
	return strings.Join(lines, "\n")
}

func videoEmbedURL(raw string) (src, platform string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return "", "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.Trim(u.Path, "/")

	switch host {
	case "youtu.be", "youtube.com", "m.youtube.com":
		id := ""
		switch {
		case host == "youtu.be":
			id = path
		case path == "watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"), strings.HasPrefix(path, "embed/"):
			id = path[strings.Index(path, "/")+1:]
		}
		id, _, _ = strings.Cut(id, "/")
		if id == "" {
			return "", "", false
		}
		params := url.Values{"rel": {"0"}, "playsinline": {"1"}}
		if start := youTubeStart(u.Query().Get("t")); start > 0 {
			params.Set("start", strconv.Itoa(start))
		}
		return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id) + "?" + params.Encode(), "youtube", true
	case "vimeo.com":
		id, _, _ := strings.Cut(path, "/")
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return "", "", false
		}
		return "https://player.vimeo.com/video/" + id, "vimeo", true
	}
	return "", "", false
}

// youTubeStart 解析 t=90 或 t=1m30s 形式的起始时间。
func youTubeStart(raw string) int {
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return max(seconds, 0)
	}
	total := 0
	for _, m := range youTubeOffsetPattern.FindAllStringSubmatch(raw, -1) {
		n, _ := strconv.Atoi(m[1])
		switch strings.ToLower(m[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		default:
			total += n
		}
	}
	return total
}

func videoEmbedHTML(src, platform string) string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video="%s"><iframe src="%s" title="Video" loading="lazy" allow="encrypted-media; picture-in-picture; web-share" allowfullscreen referrerpolicy="strict-origin-when-cross-origin"></iframe></div>`,
		platform, html.EscapeString(src),
	)
}
