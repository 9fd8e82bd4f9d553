package domain

import "errors"

// 生成の前提条件エラー。メッセージはそのまま利用者に表示されます。
var (
	ErrConsentRequired   = errors.New("Parental consent is required to proceed.")
	ErrCharacterRequired = errors.New("Please add at least one character details.")
)

var (
	ErrInvalidGender = errors.New("invalid gender")
	ErrInvalidAge    = errors.New("invalid age")
	ErrInvalidStyle  = errors.New("invalid style")
)

// ErrGenerationInProgress は同じプロジェクトの生成が既に走っている場合のエラーです。
var ErrGenerationInProgress = errors.New("generation is already in progress")

// IsValidationError は利用者の入力起因のエラーかどうかを判定します。
func IsValidationError(err error) bool {
	return errors.Is(err, ErrConsentRequired) ||
		errors.Is(err, ErrCharacterRequired) ||
		errors.Is(err, ErrInvalidGender) ||
		errors.Is(err, ErrInvalidAge) ||
		errors.Is(err, ErrInvalidStyle)
}
