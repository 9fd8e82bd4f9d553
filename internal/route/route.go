package route

import (
	"strings"

	"github.com/shouni/go-amazebook-kit/pkg/auth"
)

// Page はシェルが表示する画面です。
type Page string

const (
	PageHome          Page = "home"
	PageCreate        Page = "create"
	PagePreview       Page = "preview"
	PagePricing       Page = "pricing"
	PageHowItWorks    Page = "how-it-works"
	PageExamples      Page = "examples"
	PageAdmin         Page = "admin"
	PageSignIn        Page = "signin"
	PageProfile       Page = "profile"
	PageVerifyPayment Page = "verify-payment"
)

var pages = map[string]Page{
	"create":         PageCreate,
	"preview":        PagePreview,
	"pricing":        PagePricing,
	"how-it-works":   PageHowItWorks,
	"examples":       PageExamples,
	"admin":          PageAdmin,
	"signin":         PageSignIn,
	"profile":        PageProfile,
	"verify-payment": PageVerifyPayment,
}

// Decision は表示する画面と、必要であればリダイレクト先のハッシュです。
type Decision struct {
	Page     Page   `json:"page"`
	Redirect string `json:"redirect,omitempty"`
}

// Hash は画面のフラグメント表記を返します。
func (p Page) Hash() string {
	if p == PageHome {
		return ""
	}
	return "#" + string(p)
}

// Resolve は URL フラグメントとログイン状態から表示画面を決めます。
// user が nil の場合は未ログインとして扱います。
func Resolve(fragment string, user *auth.User, flags auth.FeatureFlags) Decision {
	page, ok := pages[strings.TrimPrefix(strings.TrimSpace(fragment), "#")]
	if !ok {
		page = PageHome
	}

	if user != nil && flags.VerifiedPaymentRequired && !user.PaymentVerified &&
		page != PageVerifyPayment && page != PageSignIn {
		return redirect(PageVerifyPayment)
	}

	switch page {
	case PageAdmin:
		if user == nil {
			return redirect(PageSignIn)
		}
		if !user.Role.CanAdminister() {
			return redirect(PageProfile)
		}
	case PageProfile, PageVerifyPayment:
		if user == nil {
			return redirect(PageSignIn)
		}
	}
	return Decision{Page: page}
}

func redirect(p Page) Decision {
	return Decision{Page: p, Redirect: p.Hash()}
}
