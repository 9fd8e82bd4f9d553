package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataURLPrefix   = "data:"
	dataURLEncoding = ";base64,"
	defaultMimeType = "image/png"
)

// ErrInvalidDataURL は base64 形式の data URL として解釈できない場合のエラーです。
var ErrInvalidDataURL = errors.New("invalid data URL")

// EncodeDataURL は画像データを data:<mime>;base64,... 形式に変換します。
func EncodeDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return dataURLPrefix + mimeType + dataURLEncoding + base64.StdEncoding.EncodeToString(data)
}

// IsDataURL は文字列が data URL かどうかを返します。
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, dataURLPrefix)
}

// DecodeDataURL は data URL を MIME タイプと生データに分解します。
func DecodeDataURL(s string) (string, []byte, error) {
	if !IsDataURL(s) {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, dataURLPrefix), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return mimeType, data, nil
}
