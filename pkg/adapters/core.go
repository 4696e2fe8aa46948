package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/vibe-ui-kit/pkg/imgutil"
)

// ErrUnsafeURL は SSRF の可能性がある URL が指定されたことを表します。
var ErrUnsafeURL = errors.New("unsafe url")

// ImageCacher は取得済み画像のキャッシュ操作を抽象化するインターフェースです。
// github.com/patrickmn/go-cache の *cache.Cache がそのまま満たします。
type ImageCacher interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, d time.Duration)
}

// RemoteImage は URL から取得した画像データです。
type RemoteImage struct {
	Data     []byte
	MimeType string
}

// RemoteImageLoader は参照画像を URL から取得するコンポーネントです。
// 生成結果ではなく、ダウンロードした画像バイト列のみをキャッシュします。
type RemoteImageLoader struct {
	httpClient httpkit.ClientInterface
	imageCache ImageCacher
	cacheTTL   time.Duration
	// checkURL はテストで差し替えられるように保持します。
	checkURL func(string) (bool, error)
}

// NewRemoteImageLoader は依存関係を注入して RemoteImageLoader のインスタンスを生成します。
// imageCache は nil を許容します（キャッシュなし動作）。
func NewRemoteImageLoader(httpClient httpkit.ClientInterface, imageCache ImageCacher, cacheTTL time.Duration) (*RemoteImageLoader, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &RemoteImageLoader{
		httpClient: httpClient,
		imageCache: imageCache,
		cacheTTL:   cacheTTL,
		checkURL:   isSafeURL,
	}, nil
}

// Load は URL から画像を取得し、MIME タイプを判定して返します。
func (l *RemoteImageLoader) Load(ctx context.Context, rawURL string) (*RemoteImage, error) {
	// キャッシュの確認
	if l.imageCache != nil {
		if cached, found := l.imageCache.Get(rawURL); found {
			if data, ok := cached.([]byte); ok {
				return toRemoteImage(data)
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", cached))
		}
	}

	// SSRF対策のバリデーション
	if safe, err := l.checkURL(rawURL); !safe || err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}

	imgBytes, err := l.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("参照画像のダウンロードに失敗しました: %w", err)
	}

	img, err := toRemoteImage(imgBytes)
	if err != nil {
		return nil, err
	}

	if l.imageCache != nil {
		l.imageCache.Set(rawURL, imgBytes, l.cacheTTL)
	}
	return img, nil
}

func toRemoteImage(data []byte) (*RemoteImage, error) {
	mimeType, err := imgutil.ResolveMIME(data, "")
	if err != nil {
		return nil, err
	}
	return &RemoteImage{Data: data, MimeType: mimeType}, nil
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
