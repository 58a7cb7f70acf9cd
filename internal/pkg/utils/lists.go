package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseJSONList decodes a form field holding a JSON array of strings, e.g.
// `["sketch","Auto"]`. An empty field is an empty list.
func ParseJSONList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid JSON list: %w", err)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out, nil
}

var hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ParseHashtags returns the #hashtags of text without the leading '#',
// lower-cased, in first-seen order.
func ParseHashtags(text string) []string {
	var tags []string
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	return MergeTags(tags)
}

// MergeTags lower-cases, strips '#' and de-duplicates the given tag lists,
// keeping first-seen order.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, list := range lists {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), "#")))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Dedupe drops repeated values, keeping the first occurrence of each.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
