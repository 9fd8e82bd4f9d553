package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownKey は定義されていない設定キーが指定された場合のエラーです。
var ErrUnknownKey = errors.New("unknown settings key")

// Store は設定値を保存するフラットなキーバリューストアの契約です。
type Store interface {
	// Get は保存済みの値を返します。未保存の場合 ok は false です。
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// GenerationParams は生成時に参照する調整可能なパラメータです。
type GenerationParams struct {
	Temperature  float32
	TopP         float32
	SafetyLevel  string
	ImageSuffix  string
	FluxGuidance float64
}

// Prompts は3つのペルソナのプロンプトテンプレートです。
type Prompts struct {
	Editor      string
	Author      string
	ArtDirector string
}

// Entry は管理画面向けの設定値1件分です。
type Entry struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Default  string `json:"default"`
	Modified bool   `json:"modified"`
}

// Service は工場出荷時の値を補完しながら設定の読み書きを行います。
type Service struct {
	store Store
}

// NewService は Store を受け取って Service を初期化します。
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store は必須です")
	}
	return &Service{store: store}, nil
}

// Get は保存済みの値、なければデフォルト値を返します。
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("設定 '%s' の読み込みに失敗しました: %w", key, err)
	}
	if ok {
		return v, nil
	}
	return Default(key), nil
}

// Save は値をそのまま保存します。
func (s *Service) Save(ctx context.Context, key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := s.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("設定 '%s' の保存に失敗しました: %w", key, err)
	}
	return nil
}

// SaveAll は複数の値をまとめて保存します。未知のキーが含まれる場合は何も保存しません。
func (s *Service) SaveAll(ctx context.Context, values map[string]string) error {
	for k := range values {
		if !IsKnown(k) {
			return fmt.Errorf("%w: %s", ErrUnknownKey, k)
		}
	}
	for _, k := range Keys() {
		v, ok := values[k]
		if !ok {
			continue
		}
		if err := s.store.Set(ctx, k, v); err != nil {
			return fmt.Errorf("設定 '%s' の保存に失敗しました: %w", k, err)
		}
	}
	return nil
}

// Reset は全キーを削除し、すべての値を工場出荷時の状態に戻します。
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Delete(ctx, Keys()...); err != nil {
		return fmt.Errorf("設定のリセットに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "Settings reset to defaults")
	return nil
}

// Number は値を数値として解釈します。
// 解釈できない場合や 0 の場合は、flux_guidance_scale なら 3.5、それ以外は 0.7 を返します。
func (s *Service) Number(ctx context.Context, key string) (float64, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return parseNumber(key, v), nil
}

// IsModified は保存済みの値がデフォルトと異なるかどうかを返します。
func (s *Service) IsModified(ctx context.Context, key string) (bool, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return v != Default(key), nil
}

// Snapshot は全キーの有効値を表示順で返します。
func (s *Service) Snapshot(ctx context.Context) ([]Entry, error) {
	keys := Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		v, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		def := Default(k)
		entries = append(entries, Entry{Key: k, Value: v, Default: def, Modified: v != def})
	}
	return entries, nil
}

// GenerationParams は生成用の調整パラメータをまとめて読み出します。
func (s *Service) GenerationParams(ctx context.Context) (GenerationParams, error) {
	var p GenerationParams

	temp, err := s.Number(ctx, KeyGeminiTemperature)
	if err != nil {
		return p, err
	}
	topP, err := s.Number(ctx, KeyGeminiTopP)
	if err != nil {
		return p, err
	}
	guidance, err := s.Number(ctx, KeyFluxGuidance)
	if err != nil {
		return p, err
	}
	safety, err := s.Get(ctx, KeyGeminiSafety)
	if err != nil {
		return p, err
	}
	suffix, err := s.Get(ctx, KeyImageStyleSuffix)
	if err != nil {
		return p, err
	}

	p.Temperature = float32(temp)
	p.TopP = float32(topP)
	p.FluxGuidance = guidance
	p.SafetyLevel = strings.TrimSpace(safety)
	p.ImageSuffix = suffix
	return p, nil
}

// Prompts は3つのペルソナのテンプレートを読み出します。
func (s *Service) Prompts(ctx context.Context) (Prompts, error) {
	var p Prompts
	var err error
	if p.Editor, err = s.Get(ctx, KeyEditorPrompt); err != nil {
		return p, err
	}
	if p.Author, err = s.Get(ctx, KeyAuthorPrompt); err != nil {
		return p, err
	}
	if p.ArtDirector, err = s.Get(ctx, KeyArtDirectorPrompt); err != nil {
		return p, err
	}
	return p, nil
}

func parseNumber(key, raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || n == 0 || math.IsNaN(n) {
		if key == KeyFluxGuidance {
			return fallbackFluxGuidance
		}
		return fallbackNumber
	}
	return n
}
