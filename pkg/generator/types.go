package generator

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = float32(0.4)
	DefaultJPEGQuality = 75

	// DefaultBrief はブリーフが空のときに送る指示文です。
	DefaultBrief = "Recreate this interface exactly as seen in the image, making it modern and responsive."

	briefPrefix = "Design Brief / Vibe: "
)

// SystemInstruction は出力形式を固定するためのシステム指示です。
const SystemInstruction = `
You are an expert full-stack developer specializing in "Vibe Coding" and Tailwind CSS.
Your task is to analyze the user's uploaded sketch/mockup and their provided design brief (the "vibe").

Based ONLY on the input, you MUST generate a COMPLETE, single-file HTML document using Tailwind CSS via CDN.
The output must be production-ready, responsive, and visually stunning.

RULES:
1. Output ONLY the raw HTML code. Do not wrap it in markdown code blocks (like ` + "```html" + `). Do not add explanations.
2. The HTML must include <script src="https://cdn.tailwindcss.com"></script> in the <head>.
3. Use FontAwesome or Heroicons SVG strings for icons if needed (do not rely on external icon CSS files unless using a reliable CDN).
4. Use https://picsum.photos/id/{id}/800/600 for placeholder images if the design requires images.
5. Ensure the design is responsive (mobile-first).
6. Interpret the "vibe" creatively. If they say "Cyberpunk", use neons and dark backgrounds. If "Corporate", use clean blues and whites.
`

// Options は GeminiGenerator の設定です。
type Options struct {
	APIKey      string
	Model       string
	// Temperature が nil の場合は DefaultTemperature を使います。0 はそのまま送ります。
	Temperature *float32
	// CompressAboveBytes を超える画像は JPEG に再エンコードしてから送ります。0 で無効。
	CompressAboveBytes int
	JPEGQuality        int
}
