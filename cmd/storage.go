package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-remote-io/pkg/s3factory"
)

// fileIO は generate コマンドの入出力先です。
// ローカルパスに加えて gs:// と s3:// の URI を扱えます。
type fileIO struct {
	reader remoteio.InputReader
	writer remoteio.OutputWriter
	close  func() error
}

// newFileIO は指定された URI のスキームに合わせてクライアントを用意します。
// テストで差し替えられます。
var newFileIO = func(ctx context.Context, uris ...string) (*fileIO, error) {
	var useGCS, useS3 bool
	for _, u := range uris {
		useGCS = useGCS || remoteio.IsGCSURI(u)
		useS3 = useS3 || remoteio.IsS3URI(u)
	}

	var newFactory func(context.Context) (remoteio.IOFactory, error)
	switch {
	case useGCS && useS3:
		return nil, fmt.Errorf("gs:// と s3:// は同時に指定できません")
	case useGCS:
		newFactory = gcsfactory.New
	case useS3:
		newFactory = s3factory.New
	default:
		return &fileIO{
			reader: remoteio.NewUniversalInputReader(nil, nil),
			writer: remoteio.NewUniversalIOWriter(nil, nil),
			close:  func() error { return nil },
		}, nil
	}

	factory, err := newFactory(ctx)
	if err != nil {
		return nil, err
	}
	reader, err := factory.InputReader()
	if err != nil {
		factory.Close()
		return nil, err
	}
	writer, err := factory.OutputWriter()
	if err != nil {
		factory.Close()
		return nil, err
	}
	return &fileIO{reader: reader, writer: writer, close: factory.Close}, nil
}

// readImage は画像を読み込みます。maxBytes を超える場合はエラーです。
func readImage(ctx context.Context, reader remoteio.InputReader, uri string, maxBytes int64) ([]byte, error) {
	rc, err := reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", uri, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", uri, maxBytes)
	}
	return data, nil
}
