package domain

import (
	"fmt"
	"strings"
)

// Gender はキャラクターの性別表現です。
type Gender string

const (
	GenderBoy     Gender = "boy"
	GenderGirl    Gender = "girl"
	GenderNeutral Gender = "neutral"
)

// キャラクターのデフォルト値
const (
	DefaultCharacterID  = "1"
	DefaultAge          = 5
	DefaultGender       = GenderNeutral
	DefaultHairColor    = "brown"
	DefaultEyeColor     = "brown"
	characterNameJoiner = " and "
)

// Valid は定義済みの性別かどうかを返します。
func (g Gender) Valid() bool {
	switch g {
	case GenderBoy, GenderGirl, GenderNeutral:
		return true
	}
	return false
}

// Character は絵本に登場する子どもキャラクターの定義を保持します。
type Character struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    Gender `json:"gender"`
	HairColor string `json:"hairColor"`
	EyeColor  string `json:"eyeColor"`
	PhotoURL  string `json:"photoUrl,omitempty"` // アップロードされた写真の参照先
}

// Characters はプロジェクトが保持するキャラクターの順序付きリストです。
type Characters []Character

// NewCharacter はデフォルト値で初期化されたキャラクターを生成します。
func NewCharacter(id string) Character {
	if id == "" {
		id = DefaultCharacterID
	}
	return Character{
		ID:        id,
		Age:       DefaultAge,
		Gender:    DefaultGender,
		HairColor: DefaultHairColor,
		EyeColor:  DefaultEyeColor,
	}
}

// String はキャラクターの情報を文字列で返します。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// Appearance は画像生成や台本に注入する外見の説明文を返します。
// 例: "5-year-old girl, red hair, green eyes."
func (c Character) Appearance() string {
	return fmt.Sprintf("%d-year-old %s, %s hair, %s eyes.", c.Age, c.Gender, c.HairColor, c.EyeColor)
}

// Names は空でないキャラクター名を順序どおりに返します。
func (cs Characters) Names() []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		if name := strings.TrimSpace(c.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// JoinedNames は全キャラクター名を sep で結合します。
func (cs Characters) JoinedNames(sep string) string {
	return strings.Join(cs.Names(), sep)
}

// Bible は一貫性保持のための「キャラクターバイブル」を構築します。
func (cs Characters) Bible() string {
	entries := make([]string, 0, len(cs))
	for _, c := range cs {
		entries = append(entries, fmt.Sprintf("NAME: %s\n APPEARANCE: %s", c.Name, c.Appearance()))
	}
	return strings.Join(entries, "\n")
}

// Clone はスライスの防御的コピーを返します。
func (cs Characters) Clone() Characters {
	if cs == nil {
		return nil
	}
	copied := make(Characters, len(cs))
	copy(copied, cs)
	return copied
}

// CharacterPatch はキャラクターの部分更新です。nil のフィールドは変更しません。
type CharacterPatch struct {
	Name      *string `json:"name,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Gender    *Gender `json:"gender,omitempty"`
	HairColor *string `json:"hairColor,omitempty"`
	EyeColor  *string `json:"eyeColor,omitempty"`
	PhotoURL  *string `json:"photoUrl,omitempty"`
}

// Apply はパッチをキャラクターに適用します。
func (p CharacterPatch) Apply(c *Character) error {
	if p.Gender != nil && !p.Gender.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidGender, *p.Gender)
	}
	if p.Age != nil && *p.Age < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAge, *p.Age)
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Age != nil {
		c.Age = *p.Age
	}
	if p.Gender != nil {
		c.Gender = *p.Gender
	}
	if p.HairColor != nil {
		c.HairColor = *p.HairColor
	}
	if p.EyeColor != nil {
		c.EyeColor = *p.EyeColor
	}
	if p.PhotoURL != nil {
		c.PhotoURL = *p.PhotoURL
	}
	return nil
}
