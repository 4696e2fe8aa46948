package controller

import (
	"github.com/shouni/vibe-ui-kit/pkg/domain"
	"github.com/shouni/vibe-ui-kit/pkg/project"
)

// State はアプリケーション状態の不変スナップショットです。
// 変更は遷移メソッドが返す新しい値を通してのみ行います。
//
// 不変条件:
//   - Markup が空でないのは Status == StatusSuccess のときだけ
//   - ErrorMessage が空でないのは Status == StatusError のときだけ
type State struct {
	Image        []byte
	MimeType     string
	Prompt       string
	Markup       string
	Status       domain.Status
	ErrorMessage string
	ActiveView   domain.View
}

// InitialState は起動直後の状態です。
func InitialState() State {
	return State{Status: domain.StatusIdle, ActiveView: domain.ViewPreview}
}

// HasImage は画像が選択済みかどうかを返します。
func (s State) HasImage() bool {
	return len(s.Image) > 0
}

// Files は現在のマークアップとプロンプトから導出されるプロジェクトファイルです。
// マークアップがなければ空です。
func (s State) Files() []domain.VirtualFile {
	if s.Markup == "" {
		return nil
	}
	return project.Assemble(s.Markup, s.Prompt)
}

// SelectImage は画像を差し替えて Idle に戻します。プロンプトは保持します。
func (s State) SelectImage(data []byte, mimeType string) State {
	s.Image = data
	s.MimeType = mimeType
	s.Markup = ""
	s.ErrorMessage = ""
	s.Status = domain.StatusIdle
	s.ActiveView = domain.ViewPreview
	return s
}

// SetPrompt はブリーフを更新します。
func (s State) SetPrompt(prompt string) State {
	s.Prompt = prompt
	return s
}

// SwitchView は表示タブを切り替えます。
func (s State) SwitchView(v domain.View) State {
	s.ActiveView = v
	return s
}

// BeginGenerate は Generating へ遷移します。
// 画像がない場合や生成中の場合は変更せず false を返します。
func (s State) BeginGenerate() (State, bool) {
	if !s.HasImage() || s.Status == domain.StatusGenerating {
		return s, false
	}
	s.Status = domain.StatusGenerating
	s.Markup = ""
	s.ErrorMessage = ""
	s.ActiveView = domain.ViewPreview
	return s, true
}

// CompleteGenerate は生成結果を保存して Success へ遷移します。
// Generating 以外からは何もしません。
func (s State) CompleteGenerate(markup string) State {
	if s.Status != domain.StatusGenerating {
		return s
	}
	s.Status = domain.StatusSuccess
	s.Markup = markup
	return s
}

// FailGenerate はエラーメッセージを保存して Error へ遷移します。
// Generating 以外からは何もしません。
func (s State) FailGenerate(message string) State {
	if s.Status != domain.StatusGenerating {
		return s
	}
	s.Status = domain.StatusError
	s.ErrorMessage = message
	return s
}
