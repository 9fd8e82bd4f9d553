package payment

import "strings"

const (
	maxCardDigits = 16
	minCardDigits = 4
	cardGroupSize = 4
)

// FormatCardNumber は入力中のカード番号を4桁区切りに整形します。
// 数字以外は取り除き、16桁を超える部分は切り捨てます。数字が4桁未満の場合は入力をそのまま返します。
func FormatCardNumber(raw string) string {
	digits := make([]byte, 0, maxCardDigits)
	for i := 0; i < len(raw) && len(digits) < maxCardDigits; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) < minCardDigits {
		return raw
	}

	groups := make([]string, 0, (len(digits)+cardGroupSize-1)/cardGroupSize)
	for i := 0; i < len(digits); i += cardGroupSize {
		groups = append(groups, string(digits[i:min(i+cardGroupSize, len(digits))]))
	}
	return strings.Join(groups, " ")
}
