package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/vibe-ui-kit/pkg/adapters"
	"github.com/shouni/vibe-ui-kit/pkg/config"
	"github.com/shouni/vibe-ui-kit/pkg/generator"
)

// newGenerator はテストで差し替えられます。
var newGenerator = func(c *config.Config) (generator.Generator, error) {
	return generator.NewGeminiGenerator(generator.NewGenAIClient, c.GeneratorOptions())
}

func newImageLoader(c *config.Config) (*adapters.RemoteImageLoader, error) {
	return adapters.NewRemoteImageLoader(
		httpkit.New(c.Image.FetchTimeout),
		cache.New(c.Image.RemoteCacheTTL, 2*c.Image.RemoteCacheTTL),
		c.Image.RemoteCacheTTL,
	)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// setupLogger は tint ハンドラをデフォルトロガーに設定します。
// 端末以外への出力では色を付けません。
func setupLogger(w io.Writer, level string) {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	})))
}
