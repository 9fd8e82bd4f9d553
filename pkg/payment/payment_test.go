package payment

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"4242424242424242", "4242 4242 4242 4242"},
		{"4242 4242-4242", "4242 4242 4242"},
		{"42424", "4242 4"},
		{"42", "42"},
		{"ab1", "ab1"},
		{"12345678901234567890", "1234 5678 9012 3456"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatCardNumber(tt.in); got != tt.want {
				t.Errorf("期待値 %q, 実際の値 %q", tt.want, got)
			}
		})
	}
}

func TestProcessor_VerifyCard(t *testing.T) {
	p := NewProcessor(0, 0)
	ctx := context.Background()

	if err := p.VerifyCard(ctx, "4000 0000 0000 0002"); !errors.Is(err, ErrCardDeclined) {
		t.Errorf("ErrCardDeclined を期待しましたが %v", err)
	}
	if err := p.VerifyCard(ctx, "4242 4242 4242 4242"); err != nil {
		t.Errorf("成功を期待しましたが %v", err)
	}
}

func TestProcessor_Latency(t *testing.T) {
	p := NewProcessor(time.Hour, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := p.VerifyCard(ctx, "4242"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("キャンセルで中断されるはずです: %v", err)
	}
	if _, err := p.ProcessPayment(ctx, 9.99, ""); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("キャンセルで中断されるはずです: %v", err)
	}
}

func TestProcessor_ProcessPayment(t *testing.T) {
	p := NewProcessor(0, 0, WithRand(rand.New(rand.NewPCG(1, 2))))
	ctx := context.Background()

	var ok, declined int
	for range 200 {
		res, err := p.ProcessPayment(ctx, 29.99, "USD")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if res.Success {
			ok++
			if !strings.HasPrefix(res.TransactionID, "txn_") || len(res.TransactionID) != 13 {
				t.Errorf("取引 ID の形式が違います: %q", res.TransactionID)
			}
		} else {
			declined++
			if res.Error != "Payment declined by bank." {
				t.Errorf("拒否メッセージが違います: %q", res.Error)
			}
		}
	}
	if ok == 0 || declined == 0 || ok < declined*3 {
		t.Errorf("成功率が想定外です: 成功 %d, 拒否 %d", ok, declined)
	}
}

func TestPlans(t *testing.T) {
	ps := Plans()
	if len(ps) != 3 {
		t.Fatalf("プラン数 期待値 3, 実際の値 %d", len(ps))
	}
	hc, ok := FindPlan("hardcover")
	if !ok || hc.Price != 29.99 || !hc.Popular {
		t.Errorf("ハードカバーのプランが違います: %+v", hc)
	}
	ps[0].Features[0] = "changed"
	if Plans()[0].Features[0] == "changed" {
		t.Error("返却値の変更が内部の定義に影響しています")
	}
}
