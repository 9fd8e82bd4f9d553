package payment

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const (
	DefaultCurrency    = "USD"
	declinedCardPrefix = "4000"
	transactionPrefix  = "txn_"
	transactionIDLen   = 9
	successRate        = 0.9
	base36Alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	declinedByBank     = "Payment declined by bank."
)

// ErrCardDeclined は模擬カード検証でカードが拒否された場合のエラーです。
var ErrCardDeclined = errors.New("Card declined: Your card's security code is incorrect.")

// Result は模擬決済の結果です。
type Result struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Processor は Stripe を模した決済処理です。実際の決済は行いません。
type Processor struct {
	verifyLatency  time.Duration
	paymentLatency time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option は Processor の任意設定です。
type Option func(*Processor)

// WithRand は乱数源を差し替えます。
func WithRand(r *rand.Rand) Option {
	return func(p *Processor) { p.rnd = r }
}

// NewProcessor は指定の遅延で応答する Processor を作成します。
func NewProcessor(verifyLatency, paymentLatency time.Duration, opts ...Option) *Processor {
	p := &Processor{
		verifyLatency:  verifyLatency,
		paymentLatency: paymentLatency,
		rnd:            rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// VerifyCard はカード番号を検証します。4000 で始まる番号は拒否されます。
func (p *Processor) VerifyCard(ctx context.Context, cardNumber string) error {
	if err := wait(ctx, p.verifyLatency); err != nil {
		return err
	}
	if strings.HasPrefix(stripSpaces(cardNumber), declinedCardPrefix) {
		slog.WarnContext(ctx, "Card verification declined")
		return ErrCardDeclined
	}
	return nil
}

// ProcessPayment は決済を模擬します。約9割が成功します。
func (p *Processor) ProcessPayment(ctx context.Context, amount float64, currency string) (Result, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if err := wait(ctx, p.paymentLatency); err != nil {
		return Result{}, err
	}

	p.mu.Lock()
	ok := p.rnd.Float64() < successRate
	txn := p.transactionID()
	p.mu.Unlock()

	if !ok {
		slog.WarnContext(ctx, "Payment declined", "amount", amount, "currency", currency)
		return Result{Success: false, Error: declinedByBank}, nil
	}
	slog.InfoContext(ctx, "Payment processed", "amount", amount, "currency", currency, "transaction_id", txn)
	return Result{Success: true, TransactionID: txn}, nil
}

func (p *Processor) transactionID() string {
	var sb strings.Builder
	sb.WriteString(transactionPrefix)
	for range transactionIDLen {
		sb.WriteByte(base36Alphabet[p.rnd.IntN(len(base36Alphabet))])
	}
	return sb.String()
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
