package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 10 * time.Minute

var (
	// ErrUnauthenticated はトークンが無効、期限切れ、またはログアウト済みの場合のエラーです。
	ErrUnauthenticated = errors.New("not signed in")
	// ErrEmailRequired はメールアドレスが空の場合のエラーです。
	ErrEmailRequired = errors.New("email is required")
)

// Session はログインの結果として発行されたトークンと利用者です。
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginResult はログイン操作の結果です。MFA が必要な場合 Session は nil です。
type LoginResult struct {
	MFARequired bool     `json:"mfaRequired"`
	Session     *Session `json:"session,omitempty"`
}

// Service はモックの認証と機能フラグを管理します。
type Service struct {
	mu       sync.RWMutex
	flags    FeatureFlags
	sessions *cache.Cache
	signer   tokenSigner
}

// NewService は Service を初期化します。secret はセッショントークンの署名鍵です。
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret は必須です")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl は正の値である必要があります")
	}
	return &Service{
		sessions: cache.New(ttl, defaultCleanupInterval),
		signer:   tokenSigner{secret: []byte(secret), ttl: ttl},
	}, nil
}

// Flags は現在の機能フラグを返します。
func (s *Service) Flags() FeatureFlags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

// UpdateFlag は名前でフラグを更新します。
func (s *Service) UpdateFlag(ctx context.Context, name string, value bool) (FeatureFlags, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flags.Set(name, value); err != nil {
		return s.flags, err
	}
	slog.InfoContext(ctx, "Feature flag updated", "flag", name, "value", value)
	return s.flags, nil
}

// Login はメールアドレスでログインします。MFA が有効な場合はセッションを作らずに MFA を要求します。
func (s *Service) Login(ctx context.Context, email string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return LoginResult{}, ErrEmailRequired
	}
	if s.Flags().MFA {
		return LoginResult{MFARequired: true}, nil
	}
	return s.startSession(ctx, mockUserForEmail(email))
}

// LoginWithGoogle は Google ログインを模擬します。フラグが無効なら何もしません。
func (s *Service) LoginWithGoogle(ctx context.Context) (LoginResult, error) {
	flags := s.Flags()
	if !flags.GoogleAuth {
		return LoginResult{}, nil
	}
	if flags.MFA {
		return LoginResult{MFARequired: true}, nil
	}
	return s.startSession(ctx, googleUser())
}

// VerifyMFA は確認コードを検証し、正しければセッションを作成します。
func (s *Service) VerifyMFA(ctx context.Context, code string) (*Session, bool, error) {
	if strings.TrimSpace(code) != mfaCode {
		return nil, false, nil
	}
	res, err := s.startSession(ctx, mfaUser())
	if err != nil {
		return nil, false, err
	}
	return res.Session, true, nil
}

// Resolve はトークンからログイン中の利用者を返します。
func (s *Service) Resolve(token string) (User, error) {
	sid, err := s.signer.parse(token)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	v, ok := s.sessions.Get(sid)
	if !ok {
		return User{}, ErrUnauthenticated
	}
	return v.(User), nil
}

// Logout はセッションを破棄します。以後そのトークンは解決できません。
func (s *Service) Logout(ctx context.Context, token string) error {
	sid, err := s.signer.parse(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	s.sessions.Delete(sid)
	slog.InfoContext(ctx, "Session ended")
	return nil
}

// VerifyUserPayment はログイン中の利用者を決済確認済みにします。
func (s *Service) VerifyUserPayment(ctx context.Context, token string) (User, error) {
	sid, err := s.signer.parse(token)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions.Get(sid)
	if !ok {
		return User{}, ErrUnauthenticated
	}
	u := v.(User)
	u.PaymentVerified = true
	if err := s.sessions.Replace(sid, u, cache.DefaultExpiration); err != nil {
		return User{}, ErrUnauthenticated
	}
	slog.InfoContext(ctx, "Payment method verified", "user_id", u.ID)
	return u, nil
}

func (s *Service) startSession(ctx context.Context, u User) (LoginResult, error) {
	sid := uuid.NewString()
	token, err := s.signer.sign(sid, u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	s.sessions.Set(sid, u, cache.DefaultExpiration)
	slog.InfoContext(ctx, "Session started", "user_id", u.ID, "role", u.Role)
	return LoginResult{Session: &Session{Token: token, User: u}}, nil
}
