package service

import (
	"fmt"
	"regexp"
	"strings"
)

var markdownImagePattern = regexp.MustCompile(`!\[[^\]]*]\((<[^>]+>|[^)\s]+)([^)]*)\)`)

// imagePlaceholders 记录占位符到原始图片链接的映射。
type imagePlaceholders struct {
	originals map[string]string
}

// compressMarkdownImageURLs 把图片链接替换为 image://photo-N，减少 Prompt 长度，也避免模型改写 CDN 地址。
func compressMarkdownImageURLs(input string) (string, *imagePlaceholders) {
	p := &imagePlaceholders{originals: make(map[string]string)}
	if !markdownImagePattern.MatchString(input) {
		return input, p
	}

	n := 0
	out := markdownImagePattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := markdownImagePattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		n++
		url := strings.TrimSuffix(strings.TrimPrefix(groups[1], "<"), ">")
		placeholder := fmt.Sprintf("image://photo-%d", n)
		p.originals[placeholder] = url

		replacement := placeholder
		if strings.HasPrefix(groups[1], "<") {
			replacement = "<" + placeholder + ">"
		}
		return strings.Replace(match, groups[1], replacement, 1)
	})
	return out, p
}

// Len 返回被替换的图片数量。
func (p *imagePlaceholders) Len() int {
	if p == nil {
		return 0
	}
	return len(p.originals)
}

// Restore 还原占位符。模型可能给占位符加上或去掉尖括号，两种写法都还原成原链接。
func (p *imagePlaceholders) Restore(input string) string {
	if p.Len() == 0 {
		return input
	}
	// 先替换编号大的占位符，避免 photo-1 误匹配 photo-10
	for i := p.Len(); i >= 1; i-- {
		placeholder := fmt.Sprintf("image://photo-%d", i)
		original, ok := p.originals[placeholder]
		if !ok {
			continue
		}
		input = strings.ReplaceAll(input, placeholder, original)
	}
	return input
}
