package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/vibe-ui-kit/pkg/domain"
	"github.com/shouni/vibe-ui-kit/pkg/generator"
	"github.com/shouni/vibe-ui-kit/pkg/imgutil"
	"github.com/shouni/vibe-ui-kit/pkg/metrics"
)

const fallbackErrorMessage = "Something went wrong generating the UI."

var (
	ErrNoImage       = errors.New("no image selected")
	ErrBusy          = errors.New("generation already in progress")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalidView   = errors.New("invalid view")
)

// Controller は1セッション分の State を所有し、ユーザー操作を遷移に変換します。
// 生成リクエストは同時に1つまでしか実行しません。
type Controller struct {
	mu    sync.Mutex
	state State
	gen   generator.Generator
}

// New は Generator を注入して Controller を初期化します。
func New(gen generator.Generator) (*Controller, error) {
	if gen == nil {
		return nil, fmt.Errorf("gen (generator.Generator) is required")
	}
	return &Controller{state: InitialState(), gen: gen}, nil
}

// State は現在の状態のスナップショットを返します。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Files は現在の状態から導出したプロジェクトファイルを返します。
func (c *Controller) Files() []domain.VirtualFile {
	return c.State().Files()
}

// SelectImage は画像を選択し直して Idle に戻します。
// 画像以外の MIME タイプと、生成中の差し替えは拒否します。
func (c *Controller) SelectImage(data []byte, mimeType string) error {
	resolved, err := imgutil.ResolveMIME(data, mimeType)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == domain.StatusGenerating {
		metrics.RejectedActionsTotal.WithLabelValues("busy").Inc()
		return ErrBusy
	}
	c.state = c.state.SelectImage(data, resolved)
	return nil
}

// SetPrompt はブリーフを更新します。
func (c *Controller) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.SetPrompt(prompt)
}

// ApplyPreset はプリセットの定型文でブリーフを置き換えます。
func (c *Controller) ApplyPreset(id string) (domain.VibePreset, error) {
	preset, ok := domain.FindPreset(id)
	if !ok {
		return domain.VibePreset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}
	c.SetPrompt(preset.Prompt)
	return preset, nil
}

// SwitchView は表示タブを切り替えます。
// ファイルがない状態での Code 表示を禁止するのは UI 側の責務です。
func (c *Controller) SwitchView(v domain.View) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidView, v)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.SwitchView(v)
	return nil
}

// Start は生成を非同期に開始し、完了時に閉じられるチャネルを返します。
// 画像がなければ ErrNoImage、生成中なら ErrBusy を返し、状態は変わりません。
// 開始した生成はキャンセルされず、成功か失敗まで実行されます。
func (c *Controller) Start(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	next, ok := c.state.BeginGenerate()
	if !ok {
		reason, err := "no_image", ErrNoImage
		if c.state.Status == domain.StatusGenerating {
			reason, err = "busy", ErrBusy
		}
		c.mu.Unlock()
		metrics.RejectedActionsTotal.WithLabelValues(reason).Inc()
		return nil, err
	}
	c.state = next
	req := domain.GenerationRequest{
		ImageData: next.Image,
		MimeType:  next.MimeType,
		Prompt:    next.Prompt,
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(context.WithoutCancel(ctx), req)
	}()
	return done, nil
}

// Generate は生成を開始して完了まで待ちます。
// 生成の失敗は返さずに Error 状態として保存します。
func (c *Controller) Generate(ctx context.Context) error {
	done, err := c.Start(ctx)
	if err != nil {
		return err
	}
	<-done
	return nil
}

func (c *Controller) run(ctx context.Context, req domain.GenerationRequest) {
	metrics.GenerationsActive.Inc()
	defer metrics.GenerationsActive.Dec()
	started := time.Now()

	markup, err := c.callGenerator(ctx, req)
	if err == nil && markup == "" {
		err = &generator.EmptyResponseError{}
	}

	outcome := metrics.OutcomeSuccess
	c.mu.Lock()
	if err != nil {
		outcome = metrics.OutcomeError
		c.state = c.state.FailGenerate(ErrorMessage(err))
	} else {
		c.state = c.state.CompleteGenerate(markup)
	}
	c.mu.Unlock()

	elapsed := time.Since(started)
	metrics.GenerationsTotal.WithLabelValues(outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if err != nil {
		slog.WarnContext(ctx, "UI 生成に失敗しました", "error", err, "elapsed", elapsed)
		return
	}
	slog.InfoContext(ctx, "UI 生成が完了しました", "markup_bytes", len(markup), "elapsed", elapsed)
}

// callGenerator は Generator のパニックもエラーとして扱い、コントローラーを落としません。
func (c *Controller) callGenerator(ctx context.Context, req domain.GenerationRequest) (markup string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return c.gen.Generate(ctx, req.ImageData, req.MimeType, req.Prompt)
}

// ErrorMessage は生成エラーを UI に表示する文言に変換します。
func ErrorMessage(err error) string {
	var cfgErr *generator.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackErrorMessage
}
