package generator

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// NewGenAIClient は Gemini API バックエンドの genai クライアントを作成し、
// その Models を返します。ClientFactory として利用できます。
func NewGenAIClient(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai クライアントの作成に失敗しました: %w", err)
	}
	return client.Models, nil
}

// clientHolder は初回の生成時にだけクライアントを作成します。
// 作成に失敗した場合は次回の呼び出しで再試行します。
type clientHolder struct {
	mu      sync.Mutex
	factory ClientFactory
	client  ContentGenerator
}

func (h *clientHolder) get(ctx context.Context, apiKey string) (ContentGenerator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}
	c, err := h.factory(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	h.client = c
	return c, nil
}
