package util

import (
	"strings"
)

// SearchTerms 标题分词 + 作者昵称分词 + 作者用户名，去空去重并保持顺序
func SearchTerms(title, authorName, authorUsername string) []string {
	seen := make(map[string]struct{})
	terms := make([]string, 0)
	add := func(term string) {
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, t := range strings.Fields(strings.ToLower(title)) {
		add(t)
	}
	for _, t := range strings.Fields(strings.ToLower(authorName)) {
		add(t)
	}
	add(strings.TrimSpace(authorUsername))
	return terms
}

// NormalizeTags 去除首尾空白与重复，返回原样标签与小写镜像
// 原样标签按原文去重，小写镜像按小写后的值去重
func NormalizeTags(tags []string) (original []string, lower []string) {
	seen := make(map[string]struct{})
	seenLower := make(map[string]struct{})
	original = make([]string, 0, len(tags))
	lower = make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			original = append(original, tag)
		}
		key := strings.ToLower(tag)
		if _, ok := seenLower[key]; !ok {
			seenLower[key] = struct{}{}
			lower = append(lower, key)
		}
	}
	return original, lower
}
