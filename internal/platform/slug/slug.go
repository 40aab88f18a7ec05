package slug

import (
	"path/filepath"
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// FromPath slugs a relative path so that "exam_03/ex01" becomes "exam-03-ex01".
func FromPath(rel string) string {
	return Make(strings.Join(strings.Split(filepath.ToSlash(rel), "/"), "-"))
}
