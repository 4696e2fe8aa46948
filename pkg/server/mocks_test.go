package server

import (
	"context"
	"sync"

	"github.com/shouni/vibe-ui-kit/pkg/adapters"
)

// stubGenerator は固定のマークアップかエラーを返します。
// gate が設定されている場合、閉じられるまで応答を保留します。
type stubGenerator struct {
	mu     sync.Mutex
	markup string
	err    error
	gate   chan struct{}
	calls  int
	briefs []string
}

func (g *stubGenerator) Generate(ctx context.Context, image []byte, mimeType, brief string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.briefs = append(g.briefs, brief)
	gate := g.gate
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return g.markup, g.err
}

type stubLoader struct {
	img *adapters.RemoteImage
	err error
	got []string
}

func (l *stubLoader) Load(ctx context.Context, rawURL string) (*adapters.RemoteImage, error) {
	l.got = append(l.got, rawURL)
	return l.img, l.err
}
