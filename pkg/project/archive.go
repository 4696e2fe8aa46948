package project

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/vibe-ui-kit/pkg/domain"
)

// ArchiveName はダウンロード時に提示するファイル名です。
const ArchiveName = "vibe-coder-project.zip"

// 同じファイル群から常に同じバイト列を得るため、更新時刻は固定します。
var entryModified = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// entryName はファイルのアーカイブ内配置を決めます。
// 区切りを含まないパスはルートに Name で置き、区切りを含む場合は
// 先頭セグメントをフォルダ、2番目のセグメントをファイル名として扱います。
// 3階層以上のパスは2番目のセグメントまでしか使いません（既知の制限）。
func entryName(f domain.VirtualFile) (folder, name string) {
	if !strings.Contains(f.Path, "/") {
		return "", f.Name
	}
	parts := strings.Split(f.Path, "/")
	return parts[0], parts[1]
}

// Export はファイル群を zip として w に書き出します。
// 内容は UTF-8 テキストのままバイト単位で保持されます。
func Export(w io.Writer, files []domain.VirtualFile) (err error) {
	zw := zip.NewWriter(w)
	defer func() {
		if cerr := zw.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("zip の終端書き込みに失敗しました: %w", cerr)
		}
	}()

	folders := make(map[string]bool)
	for _, f := range files {
		folder, name := entryName(f)
		entry := name
		if folder != "" {
			if !folders[folder] {
				if _, err := zw.CreateHeader(&zip.FileHeader{Name: folder + "/", Modified: entryModified}); err != nil {
					return fmt.Errorf("フォルダ %s の作成に失敗しました: %w", folder, err)
				}
				folders[folder] = true
			}
			entry = folder + "/" + name
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry,
			Method:   zip.Deflate,
			Modified: entryModified,
		})
		if err != nil {
			return fmt.Errorf("エントリ %s の作成に失敗しました: %w", entry, err)
		}
		if _, err := io.WriteString(fw, f.Content); err != nil {
			return fmt.Errorf("エントリ %s の書き込みに失敗しました: %w", entry, err)
		}
	}
	return nil
}

// ExportTo はアーカイブをメモリ上で組み立て、完成してから writer へ渡します。
// uri はローカルパスのほか gs:// や s3:// も指定できます。
// 組み立てに失敗した場合は何も書き込みません。
func ExportTo(ctx context.Context, writer remoteio.OutputWriter, uri string, files []domain.VirtualFile) error {
	var buf bytes.Buffer
	if err := Export(&buf, files); err != nil {
		return err
	}
	if err := writer.Write(ctx, uri, &buf, "application/zip"); err != nil {
		return fmt.Errorf("%s への書き込みに失敗しました: %w", uri, err)
	}
	return nil
}
