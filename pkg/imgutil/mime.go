package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotImage は画像以外のデータが渡されたことを表します。
var ErrNotImage = errors.New("not an image")

// IsImageMIME は image/* の MIME タイプかどうかを返します。
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// ResolveMIME は申告された MIME タイプを検証し、空の場合は内容から推定します。
// 画像でなければ ErrNotImage を返します。
func ResolveMIME(data []byte, declared string) (string, error) {
	mimeType := declared
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !IsImageMIME(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mimeType)
	}
	return mimeType, nil
}

// DecodeDataURL は data:<mime>;base64,<data> 形式の文字列を分解します。
func DecodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", fmt.Errorf("data URL ではありません")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("data URL の区切りが見つかりません")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mimeType == "" {
		return nil, "", fmt.Errorf("base64 の data URL のみ対応しています")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("base64 デコードに失敗しました: %w", err)
	}
	return data, mimeType, nil
}
