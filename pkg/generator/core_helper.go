package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/vibe-ui-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// toPart は画像バイト列を genai.Part (InlineData) に変換します。
// 閾値を超える画像は JPEG に圧縮し、失敗した場合は元のデータを送ります。
func (g *GeminiGenerator) toPart(data []byte, mimeType string) *genai.Part {
	shrunk, shrunkMIME, err := imgutil.Shrink(data, mimeType, g.opts.CompressAboveBytes, g.opts.JPEGQuality)
	if err != nil {
		slog.Warn("画像の圧縮に失敗したため元データを送信します", "error", err)
	} else if len(shrunk) != len(data) {
		slog.Info("送信前に画像を圧縮しました", "before_bytes", len(data), "after_bytes", len(shrunk))
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: shrunkMIME,
			Data:     shrunk,
		},
	}
}

// buildContents は画像とブリーフのパーツを1つのユーザーコンテンツにまとめます。
func (g *GeminiGenerator) buildContents(image []byte, mimeType, brief string) []*genai.Content {
	return []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				g.toPart(image, mimeType),
				{Text: briefText(brief)},
			},
		},
	}
}

// buildConfig はシステム指示と温度を設定した生成オプションを返します。
func (g *GeminiGenerator) buildConfig() *genai.GenerateContentConfig {
	temperature := *g.opts.Temperature
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemInstruction}},
		},
		Temperature: &temperature,
	}
}

// parseToText は Gemini のレスポンスからテキストパーツを連結して取り出します。
func parseToText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &EmptyResponseError{}
	}

	// 現在の仕様では、最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]

	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		// 安全フィルター等によるブロックの確認
		if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
			return "", &EmptyResponseError{FinishReason: string(candidate.FinishReason)}
		}
		return "", &EmptyResponseError{}
	}
	return sb.String(), nil
}

func describeImage(image []byte, mimeType string) string {
	return fmt.Sprintf("%s, %d bytes", mimeType, len(image))
}
