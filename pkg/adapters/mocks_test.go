package adapters

import (
	"context"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// --- Mocks ---

// mockHTTPClient は httpkit.ClientInterface を満たすモックなのだ。
// FetchBytes 以外のメソッドは埋め込みインターフェースで解決するのだ。
type mockHTTPClient struct {
	httpkit.ClientInterface
	fetchCalls int
	data       []byte
	err        error
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.fetchCalls++
	return m.data, m.err
}

// mockCache は ImageCacher インターフェースを実装するのだ。
type mockCache struct {
	data map[string]interface{}
}

func (m *mockCache) Get(key string) (interface{}, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockCache) Set(key string, value interface{}, d time.Duration) {
	if m.data == nil {
		m.data = make(map[string]interface{})
	}
	m.data[key] = value
}

func allowAll(string) (bool, error) { return true, nil }
