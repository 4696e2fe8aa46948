package project

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	markup := "<!DOCTYPE html><html><body>hi</body></html>"
	brief := "Dark mode.\nNeon accents.\n\nSharp angles."

	files := Assemble(markup, brief)

	t.Run("4ファイルを固定順で返すのだ", func(t *testing.T) {
		require.Len(t, files, 4)
		var paths []string
		for _, f := range files {
			paths = append(paths, f.Path)
		}
		assert.Equal(t, []string{"src/index.html", "README.md", "package.json", "tailwind.config.js"}, paths)
	})

	t.Run("HTMLはマークアップをそのまま含むのだ", func(t *testing.T) {
		assert.Equal(t, markup, files[0].Content)
		assert.Equal(t, "html", files[0].Language)
	})

	t.Run("READMEは改行を空白にしたブリーフを含むのだ", func(t *testing.T) {
		readme := files[1].Content
		assert.Contains(t, readme, "> "+strings.ReplaceAll(brief, "\n", " ")+"\n")
		assert.Contains(t, readme, "Simply open `src/index.html`")
	})

	t.Run("package.json は固定メタデータなのだ", func(t *testing.T) {
		var pkg map[string]any
		require.NoError(t, json.Unmarshal([]byte(files[2].Content), &pkg))
		assert.Equal(t, "vibe-coder-generated", pkg["name"])
		assert.Equal(t, "1.0.0", pkg["version"])
		assert.Equal(t, map[string]any{"start": "serve src"}, pkg["scripts"])
		assert.Equal(t, map[string]any{}, pkg["dependencies"])
		assert.True(t, strings.HasPrefix(files[2].Content, "{\n  \"name\""))
	})

	t.Run("同じ入力なら同じ結果になるのだ", func(t *testing.T) {
		assert.Equal(t, files, Assemble(markup, brief))
	})
}

func TestAssemble_EmptyInputs(t *testing.T) {
	files := Assemble("", "")
	require.Len(t, files, 4)
	assert.Empty(t, files[0].Content)
	assert.Contains(t, files[1].Content, "## Design Brief\n> \n")
}

func TestFind(t *testing.T) {
	files := Assemble("<p>x</p>", "b")

	f, ok := Find(files, "src/index.html")
	require.True(t, ok)
	assert.Equal(t, "index.html", f.Name)

	f, ok = Find(files, "README.md")
	require.True(t, ok)
	assert.Equal(t, "markdown", f.Language)

	_, ok = Find(files, "nope.txt")
	assert.False(t, ok)
}
