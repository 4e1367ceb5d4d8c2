package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"job-portal/internal/model"
)

// CookieName 是承载令牌的 HttpOnly cookie 名称。
const CookieName = "token"

// AdminStore 提供中间件所需的管理员读取能力。
type AdminStore interface {
	GetAdminByID(ctx context.Context, id uint) (*model.Admin, error)
}

type contextKey struct{}

// AdminFrom 从请求上下文取出已认证的管理员。
func AdminFrom(ctx context.Context) (*model.Admin, bool) {
	admin, ok := ctx.Value(contextKey{}).(*model.Admin)
	return admin, ok
}

// TokenFromRequest 提取令牌，cookie 优先于 Authorization 头。
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAdmin 校验令牌并确认管理员仍然存在，身份写入上下文后放行。
func RequireAdmin(m *Manager, store AdminStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			unauthorized(w, "Not authorized: no token provided")
			return
		}

		identity, err := m.Verify(token)
		if err != nil {
			if err == ErrTokenExpired {
				unauthorized(w, "Not authorized: token expired")
				return
			}
			unauthorized(w, "Not authorized: token invalid")
			return
		}

		admin, err := store.GetAdminByID(r.Context(), identity.AdminID)
		if err != nil {
			unauthorized(w, "Not authorized: admin not found")
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
