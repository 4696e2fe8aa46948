package controller

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// --- Mocks ---

// mockGenerator は generator.Generator のテスト用モックなのだ。
type mockGenerator struct {
	mu        sync.Mutex
	calls     int
	lastBrief string
	markup    string
	err       error
	panicWith any
	// gate が nil でなければ、閉じられるまで Generate を待たせるのだ。
	gate chan struct{}
}

func (m *mockGenerator) Generate(ctx context.Context, image []byte, mimeType, brief string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastBrief = brief
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	return m.markup, m.err
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakeModels は本物の GeminiGenerator と組み合わせるための ContentGenerator なのだ。
type fakeModels struct {
	text     string
	calls    int
	lastText string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	for _, p := range contents[0].Parts {
		if p.Text != "" {
			f.lastText = p.Text
		}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}
