package domain

import (
	"fmt"
	"strings"
)

// Status は絵本生成の進行状態です。
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusUploading        Status = "UPLOADING"
	StatusPlanningStory    Status = "PLANNING_STORY"
	StatusGeneratingStory  Status = "GENERATING_STORY"
	StatusGeneratingImages Status = "GENERATING_IMAGES"
	StatusCompleted        Status = "COMPLETED"
	StatusFailed           Status = "FAILED"
)

// IsGenerating は生成パイプラインの途中段階かどうかを返します。
func (s Status) IsGenerating() bool {
	switch s {
	case StatusPlanningStory, StatusGeneratingStory, StatusGeneratingImages:
		return true
	}
	return false
}

// IsTerminal は生成が完了または失敗で終わった状態かどうかを返します。
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Theme は絵本の冒険テーマです。
type Theme string

const (
	ThemeSpace      Theme = "Space Adventure"
	ThemeUnderwater Theme = "Underwater Explorer"
	ThemeForest     Theme = "Magical Forest"
	ThemeSuperhero  Theme = "Superhero Day"
	ThemeDinosaur   Theme = "Dinosaur Discovery"
	ThemeCustom     Theme = "Custom Adventure"
	DefaultTheme          = ThemeSpace
)

const (
	defaultTitleTail = "'s Adventure"
	titleNameJoiner  = " & "
)

// Themes は選択可能なテーマを表示順で返します。
func Themes() []Theme {
	return []Theme{ThemeSpace, ThemeUnderwater, ThemeForest, ThemeSuperhero, ThemeDinosaur, ThemeCustom}
}

// Style は挿絵のアートスタイルです。
type Style string

const (
	StyleWatercolor       Style = "watercolor"
	StyleCartoon          Style = "cartoon"
	StyleStorybookClassic Style = "storybook_classic"
	Style3DRender         Style = "3d_render"
	DefaultStyle                = StyleWatercolor
)

var styleQualifiers = map[Style]string{
	StyleWatercolor:       "soft watercolor painting, gentle washes of color, textured paper",
	StyleCartoon:          "bright cartoon illustration, bold outlines, playful shapes",
	StyleStorybookClassic: "classic storybook illustration, ink and gouache, timeless vintage picture book",
	Style3DRender:         "3D rendered animation still, soft global illumination, Pixar-like characters",
}

// Valid は定義済みのスタイルかどうかを返します。
func (s Style) Valid() bool {
	_, ok := styleQualifiers[s]
	return ok
}

// Qualifier は画像プロンプトに付与するスタイル修飾語を返します。
func (s Style) Qualifier() string {
	if q, ok := styleQualifiers[s]; ok {
		return q
	}
	return string(s)
}

var styleLabels = map[Style]string{
	StyleWatercolor:       "Watercolor",
	StyleCartoon:          "Cartoon",
	StyleStorybookClassic: "Storybook Classic",
	Style3DRender:         "3D Render",
}

// Label は画面表示用のスタイル名を返します。
func (s Style) Label() string {
	if l, ok := styleLabels[s]; ok {
		return l
	}
	return string(s)
}

// Outline はエディター工程で生成されるプロット、タイトル、表紙案です。
type Outline struct {
	Title                 string `json:"title"`
	Outline               string `json:"outline"`
	CoverImageDescription string `json:"coverImageDescription"`
}

// Project は制作中の絵本を表す集約ルートです。
type Project struct {
	ID           string     `json:"id"`
	Characters   Characters `json:"characters"`
	Theme        Theme      `json:"theme"`
	CustomPrompt string     `json:"customPrompt,omitempty"`
	Status       Status     `json:"status"`
	StoryPages   StoryPages `json:"storyPages"`
	ConsentGiven bool       `json:"consentGiven"`
	Style        Style      `json:"style"`
	Purchased    bool       `json:"purchased"`
	Title        string     `json:"title,omitempty"`
	Dedication   string     `json:"dedication,omitempty"`
	CoverPrompt  string     `json:"coverPrompt,omitempty"`
	CoverURL     string     `json:"coverUrl,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// NewProject はデフォルト値（キャラクター1人、宇宙テーマ、水彩）のプロジェクトを生成します。
func NewProject(id string) *Project {
	return &Project{
		ID:         id,
		Characters: Characters{NewCharacter(DefaultCharacterID)},
		Theme:      DefaultTheme,
		Status:     StatusDraft,
		StoryPages: StoryPages{},
		Style:      DefaultStyle,
	}
}

// Clone はプロジェクトのディープコピーを返します。
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Characters = p.Characters.Clone()
	cp.StoryPages = p.StoryPages.Clone()
	return &cp
}

// BookTitle は絵本のタイトルを返します。未生成の場合は名前から組み立てます。
func (p *Project) BookTitle() string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	return p.Characters.JoinedNames(titleNameJoiner) + defaultTitleTail
}

// DefaultDedication はキャラクター名から献辞の既定文を生成します。
// 名前が1つもない場合は空文字を返します。
func (p *Project) DefaultDedication() string {
	names := p.Characters.JoinedNames(characterNameJoiner)
	if names == "" {
		return ""
	}
	plural := ""
	if len(p.Characters) > 1 {
		plural = "s"
	}
	return fmt.Sprintf("For %s, the bravest adventurer%s I know.", names, plural)
}

// ProjectPatch はプロジェクト詳細の部分更新です。
type ProjectPatch struct {
	Theme        *Theme  `json:"theme,omitempty"`
	Style        *Style  `json:"style,omitempty"`
	CustomPrompt *string `json:"customPrompt,omitempty"`
	ConsentGiven *bool   `json:"consentGiven,omitempty"`
	Dedication   *string `json:"dedication,omitempty"`
}

// Apply はパッチをプロジェクトに適用します。
func (p ProjectPatch) Apply(project *Project) error {
	if p.Style != nil && !p.Style.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStyle, *p.Style)
	}
	if p.Theme != nil {
		project.Theme = *p.Theme
	}
	if p.Style != nil {
		project.Style = *p.Style
	}
	if p.CustomPrompt != nil {
		project.CustomPrompt = *p.CustomPrompt
	}
	if p.ConsentGiven != nil {
		project.ConsentGiven = *p.ConsentGiven
	}
	if p.Dedication != nil {
		project.Dedication = *p.Dedication
	}
	return nil
}

// ValidateForGeneration は外部呼び出しの前に生成の前提条件を検証します。
func ValidateForGeneration(p *Project) error {
	if !p.ConsentGiven {
		return ErrConsentRequired
	}
	if len(p.Characters) == 0 || strings.TrimSpace(p.Characters[0].Name) == "" {
		return ErrCharacterRequired
	}
	return nil
}
