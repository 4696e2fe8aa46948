package generator

import (
	"context"

	"google.golang.org/genai"
)

// --- Mocks ---

// mockModels は ContentGenerator のテスト用モックなのだ。
type mockModels struct {
	calls        int
	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
	resp         *genai.GenerateContentResponse
	err          error
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	return m.resp, m.err
}

// factoryFor は呼び出し回数を数える ClientFactory を返すのだ。
func factoryFor(m *mockModels, created *int) ClientFactory {
	return func(ctx context.Context, apiKey string) (ContentGenerator, error) {
		*created++
		return m, nil
	}
}

// textResponse は1つのテキストパーツを持つレスポンスを作るヘルパーです。
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}
