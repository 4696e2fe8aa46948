package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// テスト用のダミー画像（グラデーションの正方形）を作成するヘルパー
func createDummyImageData(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), uint8(x ^ y), 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("PNG画像をJPEGに変換できること", func(t *testing.T) {
		got, err := CompressToJPEG(createDummyImageData(t, "png"), 75)
		require.NoError(t, err)

		_, format, err := image.Decode(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("不正なデータはエラーになること", func(t *testing.T) {
		_, err := CompressToJPEG([]byte("this is not an image"), 75)
		assert.Error(t, err)
	})
}

func TestShrink(t *testing.T) {
	pngData := createDummyImageData(t, "png")

	t.Run("閾値以下ならそのまま返すのだ", func(t *testing.T) {
		data, mimeType, err := Shrink(pngData, "image/png", len(pngData), 75)
		require.NoError(t, err)
		assert.Equal(t, pngData, data)
		assert.Equal(t, "image/png", mimeType)
	})

	t.Run("閾値0は無効なのだ", func(t *testing.T) {
		data, _, err := Shrink(pngData, "image/png", 0, 75)
		require.NoError(t, err)
		assert.Equal(t, pngData, data)
	})

	t.Run("閾値を超えたら JPEG になるのだ", func(t *testing.T) {
		data, mimeType, err := Shrink(pngData, "image/png", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mimeType)
		assert.Less(t, len(data), len(pngData))
	})

	t.Run("デコードできなければ元データとエラーを返すのだ", func(t *testing.T) {
		raw := []byte("garbage")
		data, mimeType, err := Shrink(raw, "image/webp", 1, 75)
		assert.Error(t, err)
		assert.Equal(t, raw, data)
		assert.Equal(t, "image/webp", mimeType)
	})
}
