package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const (
	AccessTTL  = time.Minute * 30
	RefreshTTL = time.Hour * 24 * 7
)

var (
	accessSecret  = []byte("secret-key")
	refreshSecret = []byte("refresh-key")
)

// InitSecrets 启动时由配置注入签名密钥
func InitSecrets(access, refresh string) {
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
}

// Claims Version 与 redis 中的会话版本比对，不一致的 refresh 视为已吊销
type Claims struct {
	UserID  uint64 `json:"user_id"`
	Version int64  `json:"ver"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func sign(userID uint64, version int64, subject string, ttl time.Duration, secret []byte, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  userID,
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
		},
	})
	return token.SignedString(secret)
}

func GeneratePair(userID uint64, version int64) (*Pair, error) {
	now := time.Now()
	accessToken, err := sign(userID, version, "access", AccessTTL, accessSecret, now)
	if err != nil {
		return nil, err
	}
	refreshToken, err := sign(userID, version, "refresh", RefreshTTL, refreshSecret, now)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}

// ParseAccess 解析 access
func ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr, accessSecret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenInvalid
		default:
			return nil, err
		}
	}
	if claims.Subject != "access" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefresh 解析 refresh，由调用方核对会话版本后再换发
func ParseRefresh(refreshToken string) (*Claims, error) {
	claims, err := parse(refreshToken, refreshSecret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrRefreshExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if claims.Subject != "refresh" {
		return nil, ErrRefreshInvalid
	}
	return claims, nil
}
