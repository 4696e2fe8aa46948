package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/vibe-ui-kit/pkg/domain"
	"github.com/shouni/vibe-ui-kit/pkg/generator"
	"github.com/shouni/vibe-ui-kit/pkg/imgutil"
)

// PNGの最小構成バイナリ（シグネチャ含む）
var validPng = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")

func newController(t *testing.T, gen generator.Generator) *Controller {
	t.Helper()
	c, err := New(gen)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestController_InitialState(t *testing.T) {
	c := newController(t, &mockGenerator{})
	s := c.State()

	assert.Equal(t, domain.StatusIdle, s.Status)
	assert.Equal(t, domain.ViewPreview, s.ActiveView)
	assert.Empty(t, c.Files())
}

func TestController_GenerateWithoutImage(t *testing.T) {
	gen := &mockGenerator{markup: "<p>x</p>"}
	c := newController(t, gen)
	c.SetPrompt("brief")
	before := c.State()

	err := c.Generate(context.Background())

	assert.ErrorIs(t, err, ErrNoImage)
	assert.Equal(t, before, c.State(), "state must be unchanged")
	assert.Zero(t, gen.callCount(), "no service call must be issued")
}

func TestController_EmptyBriefScenario(t *testing.T) {
	// 本物の GeminiGenerator をフェイクの Models と組み合わせるのだ
	models := &fakeModels{text: "```html<!DOCTYPE html>...</html>```"}
	factory := func(ctx context.Context, apiKey string) (generator.ContentGenerator, error) {
		return models, nil
	}
	gen, err := generator.NewGeminiGenerator(factory, generator.Options{APIKey: "test-key"})
	require.NoError(t, err)

	c := newController(t, gen)
	require.NoError(t, c.SelectImage(validPng, "image/png"))
	require.NoError(t, c.SwitchView(domain.ViewCode))

	require.NoError(t, c.Generate(context.Background()))

	s := c.State()
	assert.Equal(t, 1, models.calls)
	assert.Equal(t, "Design Brief / Vibe: "+generator.DefaultBrief, models.lastText)
	assert.Equal(t, domain.StatusSuccess, s.Status)
	assert.Equal(t, "<!DOCTYPE html>...</html>", s.Markup)
	assert.Equal(t, domain.ViewPreview, s.ActiveView)
	assert.Empty(t, s.ErrorMessage)

	files := c.Files()
	require.Len(t, files, 4)
	assert.Equal(t, s.Markup, files[0].Content)
}

func TestController_MissingCredential(t *testing.T) {
	created := 0
	factory := func(ctx context.Context, apiKey string) (generator.ContentGenerator, error) {
		created++
		return &fakeModels{}, nil
	}
	gen, _ := generator.NewGeminiGenerator(factory, generator.Options{})
	c := newController(t, gen)
	require.NoError(t, c.SelectImage(validPng, "image/png"))

	require.NoError(t, c.Generate(context.Background()))

	s := c.State()
	assert.Equal(t, domain.StatusError, s.Status)
	assert.Equal(t, "API Key is missing. Please check your environment configuration.", s.ErrorMessage)
	assert.Zero(t, created)
	assert.Empty(t, s.Markup)
	assert.Empty(t, c.Files())
}

func TestController_FailureAndRecovery(t *testing.T) {
	gen := &mockGenerator{err: &generator.ServiceError{Err: errors.New("model overloaded")}}
	c := newController(t, gen)
	c.SetPrompt("keep me")
	require.NoError(t, c.SelectImage(validPng, "image/png"))

	require.NoError(t, c.Generate(context.Background()))

	s := c.State()
	require.Equal(t, domain.StatusError, s.Status)
	assert.Equal(t, "model overloaded", s.ErrorMessage)

	t.Run("エラー状態で画像を選ぶと Idle に戻りプロンプトは保持されるのだ", func(t *testing.T) {
		require.NoError(t, c.SelectImage(validPng, "image/png"))
		s := c.State()
		assert.Equal(t, domain.StatusIdle, s.Status)
		assert.Empty(t, s.ErrorMessage)
		assert.Equal(t, "keep me", s.Prompt)
	})
}

func TestController_Busy(t *testing.T) {
	gen := &mockGenerator{markup: "<p>done</p>", gate: make(chan struct{})}
	c := newController(t, gen)
	require.NoError(t, c.SelectImage(validPng, "image/png"))

	done, err := c.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGenerating, c.State().Status)

	t.Run("生成中の再リクエストは拒否されるのだ", func(t *testing.T) {
		_, err := c.Start(context.Background())
		assert.ErrorIs(t, err, ErrBusy)
	})

	t.Run("生成中の画像差し替えは拒否されるのだ", func(t *testing.T) {
		err := c.SelectImage(validPng, "image/png")
		assert.ErrorIs(t, err, ErrBusy)
	})

	t.Run("生成中でもブリーフは編集できるのだ", func(t *testing.T) {
		c.SetPrompt("later")
		assert.Equal(t, "later", c.State().Prompt)
	})

	close(gen.gate)
	<-done

	assert.Equal(t, domain.StatusSuccess, c.State().Status)
	assert.Equal(t, 1, gen.callCount())
}

func TestController_StartIgnoresCallerCancellation(t *testing.T) {
	gen := &mockGenerator{markup: "<p>ok</p>"}
	c := newController(t, gen)
	require.NoError(t, c.SelectImage(validPng, "image/png"))

	ctx, cancel := context.WithCancel(context.Background())
	done, err := c.Start(ctx)
	require.NoError(t, err)
	cancel()
	<-done

	assert.Equal(t, domain.StatusSuccess, c.State().Status)
}

func TestController_DegenerateResults(t *testing.T) {
	t.Run("空のマークアップは Error になるのだ", func(t *testing.T) {
		c := newController(t, &mockGenerator{markup: ""})
		require.NoError(t, c.SelectImage(validPng, "image/png"))
		require.NoError(t, c.Generate(context.Background()))

		s := c.State()
		assert.Equal(t, domain.StatusError, s.Status)
		assert.NotEmpty(t, s.ErrorMessage)
		assert.Empty(t, c.Files())
	})

	t.Run("パニックしてもコントローラーは落ちないのだ", func(t *testing.T) {
		c := newController(t, &mockGenerator{panicWith: "boom"})
		require.NoError(t, c.SelectImage(validPng, "image/png"))
		require.NoError(t, c.Generate(context.Background()))

		s := c.State()
		assert.Equal(t, domain.StatusError, s.Status)
		assert.Contains(t, s.ErrorMessage, "boom")
	})

	t.Run("メッセージのないエラーは既定の文言になるのだ", func(t *testing.T) {
		c := newController(t, &mockGenerator{err: errors.New("")})
		require.NoError(t, c.SelectImage(validPng, "image/png"))
		require.NoError(t, c.Generate(context.Background()))

		assert.Equal(t, fallbackErrorMessage, c.State().ErrorMessage)
	})
}

func TestController_FilesFollowPrompt(t *testing.T) {
	c := newController(t, &mockGenerator{markup: "<p>x</p>"})
	c.SetPrompt("first")
	require.NoError(t, c.SelectImage(validPng, "image/png"))
	require.NoError(t, c.Generate(context.Background()))

	assert.Contains(t, c.Files()[1].Content, "> first")

	c.SetPrompt("second\nline")
	assert.Contains(t, c.Files()[1].Content, "> second line")

	require.NoError(t, c.SelectImage(validPng, "image/png"))
	assert.Empty(t, c.Files(), "selecting a new image discards the markup")
}

func TestController_SelectImage_RejectsNonImage(t *testing.T) {
	c := newController(t, &mockGenerator{})

	err := c.SelectImage([]byte("plain text"), "text/plain")

	assert.ErrorIs(t, err, imgutil.ErrNotImage)
	assert.False(t, c.State().HasImage())
}

func TestController_ApplyPreset(t *testing.T) {
	c := newController(t, &mockGenerator{})

	p, err := c.ApplyPreset("3")
	require.NoError(t, err)
	assert.Equal(t, p.Prompt, c.State().Prompt)

	_, err = c.ApplyPreset("99")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, p.Prompt, c.State().Prompt)
}

func TestController_SwitchView(t *testing.T) {
	c := newController(t, &mockGenerator{})

	require.NoError(t, c.SwitchView(domain.ViewCode))
	assert.Equal(t, domain.ViewCode, c.State().ActiveView)

	assert.ErrorIs(t, c.SwitchView("grid"), ErrInvalidView)
	assert.Equal(t, domain.ViewCode, c.State().ActiveView)
}
