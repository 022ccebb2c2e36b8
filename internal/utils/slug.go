package utils

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var pinyinArgs = pinyin.NewArgs()

// GenerateProgramSlug 把节目名转换成只包含小写字母、数字和连字符的标识，
// 汉字会被转换成不带声调的拼音，例如 "新闻联播 2024" -> "xin-wen-lian-bo-2024"
func GenerateProgramSlug(name string) string {
	var b strings.Builder

	for _, r := range name {
		switch {
		case unicode.Is(unicode.Han, r):
			py := pinyin.SinglePinyin(r, pinyinArgs)
			if len(py) == 0 {
				b.WriteByte('-')
				continue
			}
			b.WriteByte('-')
			b.WriteString(py[0])
			b.WriteByte('-')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte('-')
		}
	}

	// 合并连续的连字符
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	if len(parts) == 0 {
		return "program"
	}
	return strings.Join(parts, "-")
}
