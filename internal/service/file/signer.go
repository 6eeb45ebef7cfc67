package file

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSignature 签名无效或已过期
var ErrInvalidSignature = errors.New("invalid or expired signature")

// URLSigner 使用 JWT 为对象 key 签发下载令牌
type URLSigner struct {
	key []byte
	now func() time.Time
}

// objectClaims 下载令牌声明
type objectClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// NewURLSigner 创建签名器
func NewURLSigner(signingKey string) *URLSigner {
	return &URLSigner{key: []byte(signingKey), now: time.Now}
}

// Sign 为 key 签发有效期为 ttl 的令牌
func (s *URLSigner) Sign(key string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := objectClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign object url: %w", err)
	}
	return token, nil
}

// Verify 校验令牌并确认它是为 key 签发的
func (s *URLSigner) Verify(key, token string) error {
	claims := &objectClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return ErrInvalidSignature
	}
	if claims.Key != key {
		return ErrInvalidSignature
	}
	return nil
}
