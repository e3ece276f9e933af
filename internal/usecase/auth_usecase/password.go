package auth

import "golang.org/x/crypto/bcrypt"

// よく使われる弱いパスワード（小文字で比較）
var weakPasswords = map[string]struct{}{
	"password":     {},
	"password123":  {},
	"12345678":     {},
	"1234567890":   {},
	"123456789012": {},
	"qwertyuiop":   {},
	"letmein1":     {},
	"admin123":     {},
}

type BcryptPasswordHasher struct {
	cost int
}

// cost が0以下なら bcrypt.DefaultCost
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
