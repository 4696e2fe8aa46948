package project

import (
	"encoding/json"
	"strings"

	"github.com/shouni/vibe-ui-kit/pkg/domain"
)

const readmeTemplate = "# Vibe Coder Project\n\n## Design Brief\n> %BRIEF%\n\n## Overview\nThis project was generated using Gemini 2.5 Multimodal API. It consists of a single-file HTML structure using Tailwind CSS via CDN.\n\n## Usage\nSimply open `src/index.html` in any modern web browser to view the result."

const tailwindConfig = "/** @type {import('tailwindcss').Config} */\nmodule.exports = {\n  content: [\"./src/**/*.{html,js}\"],\n  theme: {\n    extend: {},\n  },\n  plugins: [],\n}"

// packageDescriptor はフィールド順を固定するために構造体で定義しています。
type packageDescriptor struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Scripts      map[string]string `json:"scripts"`
	Dependencies map[string]string `json:"dependencies"`
}

var packageJSON = mustPackageJSON()

func mustPackageJSON() string {
	b, err := json.MarshalIndent(packageDescriptor{
		Name:         "vibe-coder-generated",
		Version:      "1.0.0",
		Description:  "AI generated UI",
		Scripts:      map[string]string{"start": "serve src"},
		Dependencies: map[string]string{},
	}, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Assemble は生成されたマークアップとブリーフから、ダウンロード用プロジェクトの
// 4ファイルを固定順で組み立てます。
// 純粋関数なので、同じ入力には常に同じ結果を返します。
func Assemble(markup, brief string) []domain.VirtualFile {
	// ブロック引用を1行に保つため改行を空白に潰す
	safeBrief := strings.ReplaceAll(brief, "\n", " ")

	return []domain.VirtualFile{
		{
			Name:        "index.html",
			Path:        "src/index.html",
			Language:    "html",
			Content:     markup,
			Description: "The main entry point containing the generated UI.",
		},
		{
			Name:        "README.md",
			Path:        "README.md",
			Language:    "markdown",
			Content:     strings.Replace(readmeTemplate, "%BRIEF%", safeBrief, 1),
			Description: "Project documentation and usage instructions.",
		},
		{
			Name:        "package.json",
			Path:        "package.json",
			Language:    "json",
			Content:     packageJSON,
			Description: "Project metadata and configuration.",
		},
		{
			Name:        "tailwind.config.js",
			Path:        "tailwind.config.js",
			Language:    "javascript",
			Content:     tailwindConfig,
			Description: "Tailwind CSS configuration (reference only).",
		},
	}
}

// Find はパスまたはファイル名が一致するファイルを返します。
func Find(files []domain.VirtualFile, name string) (domain.VirtualFile, bool) {
	for _, f := range files {
		if f.Path == name || f.Name == name {
			return f, true
		}
	}
	return domain.VirtualFile{}, false
}
