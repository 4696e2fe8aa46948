package generator

import (
	"context"

	"google.golang.org/genai"
)

// Generator はコントローラーが利用する生成サービスの窓口です。
// ベンダー固有のクライアントはこの背後に隠します。
type Generator interface {
	// Generate は画像とブリーフから単一ファイルの HTML を生成して返します。
	Generate(ctx context.Context, image []byte, mimeType, brief string) (string, error)
}

// ContentGenerator は genai の Models が満たす最小限の呼び出し口です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory は API キーから ContentGenerator を作成します。
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)
