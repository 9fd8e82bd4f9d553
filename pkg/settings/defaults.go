package settings

// 設定キー。値はテキストのまま保存され、数値は読み出し時に解釈されます。
const (
	KeyEditorPrompt      = "editor_prompt_v1"
	KeyAuthorPrompt      = "author_prompt_v1"
	KeyArtDirectorPrompt = "art_director_prompt_v1"
	KeyGeminiTemperature = "gemini_temperature"
	KeyGeminiTopP        = "gemini_top_p"
	KeyGeminiSafety      = "gemini_safety_level"
	KeyImageStyleSuffix  = "image_style_suffix"
	KeyFluxGuidance      = "flux_guidance_scale"
)

// 数値設定の解釈に失敗した場合のフォールバック値
const (
	fallbackFluxGuidance = 3.5
	fallbackNumber       = 0.7
)

const DefaultEditorPrompt = `ROLE: You are the Editor-in-Chief at a prestigious children's book publishing house.
TASK: Create a detailed 12-page outline for a children's picture book AND plan a compelling Front Cover concept.

DETAILS:
- Characters: {{CHARACTERS}}
- Theme: {{THEME}}
- Request: {{REQUEST}}

REQUIREMENTS:
- Structure: Introduction -> Inciting Incident -> Rising Action -> Climax -> Resolution.
- Length: Exactly 12 pages.
- Tone: Heartwarming, adventurous, and safe for kids.
- Cover: Review the cover concept to ensure it matches the book's themes and art style.
- IMPORTANT: The 'coverImageDescription' MUST explicitly include the physical appearance (hair color, eye color, clothes) of the main characters so the artist knows what to draw.

OUTPUT:
Return a simple numbered list (Page 1 to Page 12) describing the plot beat for each page, and a description for the Front Cover. Do not write the full story text yet.`

const DefaultAuthorPrompt = `ROLE: You are a Hugo-award winning children's author.

INSTRUCTIONS:
- Write 3-4 engaging sentences per page based on the Outline.
- Tone: Lyrical, sensory-rich, and emotional.
- Avoid generic AI phrases (e.g., 'whimsical', 'tapestry', 'testament'). 
- Show, don't tell.
- Focus on the interaction between characters.
- NEGATIVE CONSTRAINT: Do NOT describe the characters' physical appearance (e.g. 'Jack, a boy with brown hair') in the story text. The illustrations will show this. Use their names only.`

const DefaultArtDirectorPrompt = `ROLE: You are an expert Art Director for AI Image Generation (specifically Flux/Midjourney).

INSTRUCTIONS:
- You must write the 'imagePrompt' field for every page.
- CONSTRAINT: You MUST explicitly describe the physical appearance of EACH character on EVERY page (Hair color, eye color, clothes). The image generator has no memory of previous pages.
- BAD: "Jack runs."
- GOOD: "Jack, a small boy with curly blonde hair and blue eyes wearing a red t-shirt, running through..."
- Incorporate the style defined below into every prompt.
- Describe lighting, camera angle, and composition.

STYLE: {{STYLE}}`

const (
	DefaultTemperature  = "0.7"
	DefaultTopP         = "0.95"
	DefaultSafetyLevel  = "BLOCK_ONLY_HIGH"
	DefaultImageSuffix  = "detailed, vibrant colors, high quality, children's book illustration, 8k resolution"
	DefaultFluxGuidance = "3.5"
)

// defaults はキーと工場出荷時の値を紐づけるマップです。
var defaults = map[string]string{
	KeyEditorPrompt:      DefaultEditorPrompt,
	KeyAuthorPrompt:      DefaultAuthorPrompt,
	KeyArtDirectorPrompt: DefaultArtDirectorPrompt,
	KeyGeminiTemperature: DefaultTemperature,
	KeyGeminiTopP:        DefaultTopP,
	KeyGeminiSafety:      DefaultSafetyLevel,
	KeyImageStyleSuffix:  DefaultImageSuffix,
	KeyFluxGuidance:      DefaultFluxGuidance,
}

// Keys は全設定キーを管理画面の表示順で返します。
func Keys() []string {
	return []string{
		KeyEditorPrompt,
		KeyAuthorPrompt,
		KeyArtDirectorPrompt,
		KeyGeminiTemperature,
		KeyGeminiTopP,
		KeyGeminiSafety,
		KeyImageStyleSuffix,
		KeyFluxGuidance,
	}
}

// Default はキーの工場出荷時の値を返します。未知のキーは空文字です。
func Default(key string) string {
	return defaults[key]
}

// IsKnown は定義済みのキーかどうかを返します。
func IsKnown(key string) bool {
	_, ok := defaults[key]
	return ok
}
