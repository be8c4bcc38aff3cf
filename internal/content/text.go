package content

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	wordsPerMinute = 200
	summaryLength  = 160
)

// Slugify 生成小写、以连字符分隔的 URL 片段。
// 带重音的拉丁字母折叠为 ASCII，中文等其他文字保留原样。
func Slugify(title string) string {
	folded, _, err := transform.String(accentFolder(), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// ReadingTime 按每分钟 200 词估算阅读时长，非空文本至少 1 分钟。
// 中日韩字符按单字计词。
func ReadingTime(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			words++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// MatchesSearch 判断 query 中每个词是否都出现在 fields 里，大小写不敏感；空查询总是匹配。
func MatchesSearch(query string, fields ...string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(strings.Join(fields, " "))
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// Summarize 去除 Markdown 标记后截取前 160 个字符作为摘要。
func Summarize(markdown string) string {
	replacer := strings.NewReplacer("#", "", "*", "", "_", "", "`", "", ">", "", "[", "", "]", "")
	plain := strings.Join(strings.Fields(replacer.Replace(markdown)), " ")
	if utf8.RuneCountInString(plain) <= summaryLength {
		return plain
	}
	chars := []rune(plain)
	return strings.TrimSpace(string(chars[:summaryLength])) + "…"
}
