package slug

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrExhausted 表示重试上限内仍未找到空闲 slug，通常意味着存储层故障。
var ErrExhausted = errors.New("slug attempts exhausted")

const (
	suffixLen      = 4
	maxAttempts    = 20
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Store 提供 slug 占用查询，便于测试替换。
type Store interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Derive 从标题派生 URL 安全的 slug：小写、去变音符号、
// 非字母数字压缩为单个连字符并去掉首尾连字符。
func Derive(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Generator 解决 slug 与职位库的冲突。
type Generator struct {
	store  Store
	suffix func() string
}

// NewGenerator 创建 Generator。
func NewGenerator(store Store) *Generator {
	return &Generator{store: store, suffix: randomSuffix}
}

// Unique 生成不与现有职位冲突的 slug。显式 slug 优先于标题派生，
// 冲突时追加 4 位随机小写字母数字后缀重查，超过上限返回 ErrExhausted。
func (g *Generator) Unique(ctx context.Context, title, explicit string) (string, error) {
	base := Derive(explicit)
	if base == "" {
		base = Derive(title)
	}
	if base == "" {
		base = "job"
	}

	candidate := base
	for i := 0; i < maxAttempts; i++ {
		exists, err := g.store.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + g.suffix()
	}
	return "", ErrExhausted
}

// Suffixed 直接返回带新随机后缀的候选，供唯一索引冲突后的重试使用。
func (g *Generator) Suffixed(base string) string {
	return base + "-" + g.suffix()
}

func randomSuffix() string {
	b := make([]byte, suffixLen)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}
