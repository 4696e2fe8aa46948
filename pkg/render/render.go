// Package render はコードブラウザ用にプロジェクトファイルを HTML に変換します。
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/shouni/vibe-ui-kit/pkg/domain"
)

// Renderer は Markdown を HTML に、その他のファイルをハイライト済みコードに変換します。
type Renderer struct {
	md goldmark.Markdown
}

// New は指定した chroma スタイルで Renderer を作成します。
func New(style string) *Renderer {
	if style == "" {
		style = "github"
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(style),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// File はファイルを HTML 断片に変換します。
// 生 HTML は出力に含めないため、生成されたマークアップもエスケープされて表示されます。
func (r *Renderer) File(f domain.VirtualFile) (string, error) {
	source := f.Content
	if f.Language != "markdown" {
		source = fenced(f.Content, f.Language)
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("%s の変換に失敗しました: %w", f.Path, err)
	}
	return buf.String(), nil
}

// fenced は内容中のどのバッククォート列よりも長いフェンスで囲みます。
func fenced(content, language string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	marker := strings.Repeat("`", n)

	var sb strings.Builder
	sb.WriteString(marker)
	sb.WriteString(language)
	sb.WriteByte('\n')
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString(marker)
	sb.WriteByte('\n')
	return sb.String()
}
