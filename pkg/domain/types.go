package domain

// GenerationRequest は1回の生成アクションで送信する入力です。
// 生成後は変更しません。
type GenerationRequest struct {
	ImageData []byte
	MimeType  string
	Prompt    string
}

// VirtualFile はエクスポート対象のプロジェクト内ファイルを表します。
// ディスクには書き出さず、アーカイブ生成時にのみ実体化されます。
type VirtualFile struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Content     string `json:"content"`
	Language    string `json:"language"`
	Description string `json:"description,omitempty"`
}

// Status は UI 状態機械の現在の段階です。
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// View はプレビュー / コード表示の切り替えタブです。
type View string

const (
	ViewPreview View = "preview"
	ViewCode    View = "code"
)

// Valid は既知のタブかどうかを返します。
func (v View) Valid() bool {
	return v == ViewPreview || v == ViewCode
}

// VibePreset はブリーフ入力欄を埋めるための定型文です。
type VibePreset struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
	Color  string `json:"color"`
}

// Presets は UI から選択できる定型ブリーフの一覧です。
var Presets = []VibePreset{
	{
		ID:     "1",
		Label:  "Modern SaaS",
		Color:  "bg-blue-600",
		Prompt: "Create a clean, modern SaaS landing page. Use Inter font, ample whitespace, rounded corners, and a blue/indigo primary color palette. Make it look trustworthy and expensive.",
	},
	{
		ID:     "2",
		Label:  "Cyberpunk",
		Color:  "bg-pink-600",
		Prompt: "Cyberpunk aesthetic. Dark mode, neon pink and green accents, glitch effects, sharp angles, and a futuristic terminal vibe.",
	},
	{
		ID:     "3",
		Label:  "Minimalist",
		Color:  "bg-zinc-600",
		Prompt: "Ultra minimalist. Black and white only. Serif typography for headings. Lots of negative space. Brutalist layout structure.",
	},
	{
		ID:     "4",
		Label:  "Playful",
		Color:  "bg-yellow-500",
		Prompt: "Playful and friendly. Use rounded warm colors (orange, yellow), bubbly shapes, soft shadows, and a casual tone.",
	},
}

// FindPreset は ID に一致するプリセットを返します。
func FindPreset(id string) (VibePreset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return VibePreset{}, false
}
