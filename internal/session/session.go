// Package session はリクエストごとのログイン状態。
// ストアはこれを明示的に受け取り、グローバルなユーザーを参照しない。
package session

type Session struct {
	userID  string
	email   string
	isAdmin bool
}

// 未ログイン
func Anonymous() Session {
	return Session{}
}

func New(userID, email string, isAdmin bool) Session {
	return Session{userID: userID, email: email, isAdmin: isAdmin}
}

func (s Session) UserID() (string, bool) {
	return s.userID, s.userID != ""
}

func (s Session) Authenticated() bool {
	return s.userID != ""
}

func (s Session) Email() string {
	return s.email
}

func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.isAdmin
}

// 権限だけ差し替えたコピー（DBの最新値で上書きする用）
func (s Session) WithAdmin(isAdmin bool) Session {
	s.isAdmin = isAdmin
	return s
}
