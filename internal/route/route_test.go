package route

import (
	"testing"

	"github.com/shouni/go-amazebook-kit/pkg/auth"
)

func TestResolve(t *testing.T) {
	admin := &auth.User{Role: auth.RoleAdmin, PaymentVerified: true}
	user := &auth.User{Role: auth.RoleUser, PaymentVerified: true}
	unverified := &auth.User{Role: auth.RoleUser}
	gated := auth.FeatureFlags{VerifiedPaymentRequired: true}

	tests := []struct {
		name     string
		fragment string
		user     *auth.User
		flags    auth.FeatureFlags
		want     Decision
	}{
		{"未知のハッシュはホーム", "#unknown", nil, auth.FeatureFlags{}, Decision{Page: PageHome}},
		{"空のハッシュはホーム", "", nil, auth.FeatureFlags{}, Decision{Page: PageHome}},
		{"公開ページはそのまま表示", "#pricing", nil, auth.FeatureFlags{}, Decision{Page: PagePricing}},
		{"未ログインの管理画面はサインインへ", "#admin", nil, auth.FeatureFlags{}, Decision{Page: PageSignIn, Redirect: "#signin"}},
		{"一般ユーザーの管理画面はプロフィールへ", "#admin", user, auth.FeatureFlags{}, Decision{Page: PageProfile, Redirect: "#profile"}},
		{"管理者は管理画面を表示", "#admin", admin, auth.FeatureFlags{}, Decision{Page: PageAdmin}},
		{"未ログインのプロフィールはサインインへ", "#profile", nil, auth.FeatureFlags{}, Decision{Page: PageSignIn, Redirect: "#signin"}},
		{"未ログインの支払い確認はサインインへ", "#verify-payment", nil, gated, Decision{Page: PageSignIn, Redirect: "#signin"}},
		{"未確認ユーザーは支払い確認へ", "#create", unverified, gated, Decision{Page: PageVerifyPayment, Redirect: "#verify-payment"}},
		{"未確認ユーザーでも支払い確認ページは表示", "#verify-payment", unverified, gated, Decision{Page: PageVerifyPayment}},
		{"未確認ユーザーでもサインインは表示", "#signin", unverified, gated, Decision{Page: PageSignIn}},
		{"フラグが無効なら未確認でも表示", "#create", unverified, auth.FeatureFlags{}, Decision{Page: PageCreate}},
		{"確認済みユーザーはそのまま表示", "#examples", user, gated, Decision{Page: PageExamples}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.fragment, tt.user, tt.flags); got != tt.want {
				t.Errorf("期待値 %+v, 実際の値 %+v", tt.want, got)
			}
		})
	}
}
