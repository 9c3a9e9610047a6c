package util

import "regexp"

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags 从文本内容中提取话题标签（不含 # 前缀，去重）
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	var tags []string
	for _, m := range matches {
		tag := m[1]
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
