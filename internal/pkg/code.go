package pkg

import (
	cryptoRand "crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var (
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
)

// RandDigits 生成 n 位数字验证码
func RandDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

func IsSlug(s string) bool     { return len(s) <= 50 && slugRe.MatchString(s) }
func IsUsername(s string) bool { return len(s) <= 150 && usernameRe.MatchString(s) }
