package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に再エンコードします。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("JPEG エンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// Shrink は threshold バイトを超える画像を JPEG に圧縮します。
// 閾値以下、または圧縮しても小さくならない場合は元のデータと MIME タイプを返します。
// threshold が 0 以下なら常に元データを返します。
func Shrink(data []byte, mimeType string, threshold, quality int) ([]byte, string, error) {
	if threshold <= 0 || len(data) <= threshold {
		return data, mimeType, nil
	}
	compressed, err := CompressToJPEG(data, quality)
	if err != nil {
		return data, mimeType, err
	}
	if len(compressed) >= len(data) {
		return data, mimeType, nil
	}
	return compressed, "image/jpeg", nil
}
