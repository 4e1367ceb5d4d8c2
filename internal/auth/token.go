package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrSigningKeyMissing 表示进程未配置签名密钥，应在启动时致命退出。
	ErrSigningKeyMissing = errors.New("jwt signing secret not configured")
	// ErrTokenExpired 表示令牌已过期。
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid 表示令牌签名或格式非法。
	ErrTokenInvalid = errors.New("token invalid")
)

// DefaultTTL 是令牌的统一有效期。
const DefaultTTL = 24 * time.Hour

// Config 控制签名密钥与有效期，密钥缺省时回退到 JWT_SECRET 环境变量。
type Config struct {
	Secret string `yaml:"secret" json:"-"`
	TTL    string `yaml:"ttl" json:"ttl"`
}

// Identity 是令牌解码后的管理员身份。
type Identity struct {
	AdminID uint
	Role    string
	TokenID string
}

// Manager 负责签发与校验 HS256 令牌。
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewManager 创建 Manager，密钥缺失视为启动期配置错误。
func NewManager(cfg Config) (*Manager, error) {
	secret := cfg.Secret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return nil, ErrSigningKeyMissing
	}

	ttl := DefaultTTL
	if cfg.TTL != "" {
		if d, err := time.ParseDuration(cfg.TTL); err == nil && d > 0 {
			ttl = d
		}
	}

	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL 返回令牌有效期，供 cookie MaxAge 使用。
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue 为管理员签发带 jti 的令牌。
func (m *Manager) Issue(adminID uint) (string, error) {
	now := m.now()
	claims := tokenClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify 解码令牌，过期与非法分别返回 ErrTokenExpired、ErrTokenInvalid。
func (m *Manager) Verify(token string) (Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !parsed.Valid {
		return Identity{}, ErrTokenInvalid
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{AdminID: uint(id), Role: claims.Role, TokenID: claims.ID}, nil
}
