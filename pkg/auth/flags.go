package auth

import (
	"errors"
	"fmt"
)

// フラグ名は API と管理画面で共通です。
const (
	FlagGoogleAuth              = "googleAuth"
	FlagMFA                     = "mfa"
	FlagStripePayment           = "stripePayment"
	FlagVerifiedPaymentRequired = "verifiedPaymentRequired"
)

// ErrUnknownFlag は未定義のフラグ名が指定された場合のエラーです。
var ErrUnknownFlag = errors.New("unknown feature flag")

// FeatureFlags は認証と決済の挙動を切り替える機能フラグです。すべて既定で無効です。
type FeatureFlags struct {
	GoogleAuth              bool `json:"googleAuth"`
	MFA                     bool `json:"mfa"`
	StripePayment           bool `json:"stripePayment"`
	VerifiedPaymentRequired bool `json:"verifiedPaymentRequired"`
}

// Set は名前でフラグを更新します。
func (f *FeatureFlags) Set(name string, value bool) error {
	switch name {
	case FlagGoogleAuth:
		f.GoogleAuth = value
	case FlagMFA:
		f.MFA = value
	case FlagStripePayment:
		f.StripePayment = value
	case FlagVerifiedPaymentRequired:
		f.VerifiedPaymentRequired = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	return nil
}
