package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator は Gemini のマルチモーダル API を使って UI を生成します。
// 結果のキャッシュや自動リトライは行いません。
type GeminiGenerator struct {
	clients *clientHolder
	opts    Options
}

// NewGeminiGenerator は GeminiGenerator を初期化するのだ。
// API キーの有無はここでは検証せず、生成時に ConfigurationError として返します。
func NewGeminiGenerator(factory ClientFactory, opts Options) (*GeminiGenerator, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory (ClientFactory) is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == nil {
		opts.Temperature = genai.Ptr(DefaultTemperature)
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = DefaultJPEGQuality
	}

	return &GeminiGenerator{
		clients: &clientHolder{factory: factory},
		opts:    opts,
	}, nil
}

// Model は使用するモデル名を返します。
func (g *GeminiGenerator) Model() string {
	return g.opts.Model
}

// Generate は画像とブリーフを1回だけ送信し、コードフェンスを除去した HTML を返します。
func (g *GeminiGenerator) Generate(ctx context.Context, image []byte, mimeType, brief string) (string, error) {
	if g.opts.APIKey == "" {
		return "", &ConfigurationError{Message: missingKeyMessage}
	}

	client, err := g.clients.get(ctx, g.opts.APIKey)
	if err != nil {
		return "", &ServiceError{Err: err}
	}

	slog.InfoContext(ctx, "Gemini に UI 生成をリクエストします",
		"model", g.opts.Model, "image", describeImage(image, mimeType), "brief_len", len(brief))

	resp, err := client.GenerateContent(ctx, g.opts.Model, g.buildContents(image, mimeType, brief), g.buildConfig())
	if err != nil {
		slog.ErrorContext(ctx, "Gemini API エラー", "error", err)
		return "", &ServiceError{Err: err}
	}

	text, err := parseToText(resp)
	if err != nil {
		return "", err
	}

	code := StripCodeFences(text)
	if strings.TrimSpace(code) == "" {
		return "", &EmptyResponseError{}
	}
	return code, nil
}
