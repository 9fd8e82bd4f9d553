package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shouni/go-amazebook-kit/pkg/auth"
)

var errInvalidCode = errors.New("Invalid verification code.")

// bearerToken は Authorization ヘッダーからトークンを取り出します。
func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// currentUser はログイン中の利用者を返します。未ログインなら nil です。
func (s *Server) currentUser(r *http.Request) *auth.User {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	u, err := s.Auth.Resolve(token)
	if err != nil {
		return nil
	}
	return &u
}

// requireAdmin は管理者または開発者のみを通過させます。
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := s.currentUser(r)
		if u == nil {
			fail(w, r, auth.ErrUnauthenticated)
			return
		}
		if !u.Role.CanAdminister() {
			fail(w, r, errForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	res, err := s.Auth.Login(r.Context(), body.Email)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.Auth.Flags().GoogleAuth {
		Error(w, http.StatusForbidden, "Google sign-in is disabled.")
		return
	}
	res, err := s.Auth.LoginWithGoogle(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (s *Server) handleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	session, ok, err := s.Auth.VerifyMFA(r.Context(), body.Code)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !ok {
		Error(w, http.StatusUnauthorized, errInvalidCode.Error())
		return
	}
	JSON(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Auth.Logout(r.Context(), bearerToken(r)); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.Auth.Resolve(bearerToken(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, u)
}

func (s *Server) handleGetFlags(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, s.Auth.Flags())
}

func (s *Server) handleUpdateFlag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Value bool   `json:"value"`
	}
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	flags, err := s.Auth.UpdateFlag(r.Context(), body.Name, body.Value)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, flags)
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if _, err := s.Auth.Resolve(token); err != nil {
		fail(w, r, err)
		return
	}
	var body struct {
		CardNumber string `json:"cardNumber"`
	}
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	if err := s.Payments.VerifyCard(r.Context(), body.CardNumber); err != nil {
		fail(w, r, err)
		return
	}
	u, err := s.Auth.VerifyUserPayment(r.Context(), token)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, u)
}
