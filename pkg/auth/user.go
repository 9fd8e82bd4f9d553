package auth

import (
	"net/url"
	"strings"
)

// Role は利用者の権限です。
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleDev   Role = "dev"
)

// CanAdminister は管理画面にアクセスできる権限かどうかを返します。
func (r Role) CanAdminister() bool {
	return r == RoleAdmin || r == RoleDev
}

// User はログイン中の利用者です。
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatarUrl"`
	Role            Role   `json:"role"`
	PaymentVerified bool   `json:"paymentVerified"`
}

const (
	avatarBase        = "https://ui-avatars.com/api/?name="
	mockUserID        = "123"
	googleUserID      = "google_123"
	googleUserEmail   = "user@gmail.com"
	googleUserName    = "Google User"
	googleAvatarURL   = "https://lh3.googleusercontent.com/a/default-user=s96-c"
	mfaUserID         = "mfa_user"
	mfaUserEmail      = "secure@example.com"
	mfaUserName       = "Secure User"
	mfaCode           = "123456"
	avatarUserColor   = "0ea5e9"
	avatarAdminColor  = "0f172a"
	avatarPurpleColor = "8b5cf6"
)

func avatarURL(name, background string) string {
	return avatarBase + url.QueryEscape(name) + "&background=" + background + "&color=fff"
}

// mockUserForEmail はメールアドレスからモックの利用者を組み立てます。
// admin と dev を含むアドレスは決済確認済みとして扱います。
func mockUserForEmail(email string) User {
	switch {
	case strings.Contains(email, "admin"):
		return User{ID: mockUserID, Name: "Super Admin", Email: email, Role: RoleAdmin, PaymentVerified: true,
			AvatarURL: avatarURL("Super Admin", avatarAdminColor)}
	case strings.Contains(email, "dev"):
		return User{ID: mockUserID, Name: "Developer", Email: email, Role: RoleDev, PaymentVerified: true,
			AvatarURL: avatarURL("Developer", avatarPurpleColor)}
	}
	name, _, _ := strings.Cut(email, "@")
	return User{ID: mockUserID, Name: name, Email: email, Role: RoleUser, AvatarURL: avatarURL(name, avatarUserColor)}
}

func googleUser() User {
	return User{ID: googleUserID, Name: googleUserName, Email: googleUserEmail, Role: RoleUser, AvatarURL: googleAvatarURL}
}

func mfaUser() User {
	return User{ID: mfaUserID, Name: mfaUserName, Email: mfaUserEmail, Role: RoleUser, AvatarURL: avatarURL(mfaUserName, avatarPurpleColor)}
}
