package generator

import (
	"regexp"
	"strings"
)

const fence = "```"

// ```html は常にタグごと、それ以外の言語タグは直後が改行のときだけフェンスの一部とみなします。
// 改行は残すため、キャプチャして置換後に戻します。
var fencePattern = regexp.MustCompile("```(?:html|[A-Za-z0-9_+#-]*(\\r?\\n))?")

// StripCodeFences は文字列中のコードフェンス記号をすべて取り除きます。
// 先頭・末尾だけでなく途中に現れたものも対象です。
// フェンスに続く本文（```Hello など）は残します。
// 除去後に新しいフェンスが現れないよう、なくなるまで繰り返します。
func StripCodeFences(s string) string {
	for strings.Contains(s, fence) {
		s = fencePattern.ReplaceAllString(s, "${1}")
	}
	return s
}

// briefText は送信するテキストパーツを組み立てます。
func briefText(brief string) string {
	if brief == "" {
		brief = DefaultBrief
	}
	return briefPrefix + brief
}
