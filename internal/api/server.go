// Package api 负责 HTTP 路由、请求解析与错误映射。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"job-portal/internal/auth"
	"job-portal/internal/blog"
	"job-portal/internal/job"
	"job-portal/internal/model"
	"job-portal/internal/storage"
	"job-portal/internal/upload"

	"github.com/rs/cors"
)

// Config 控制 HTTP 层行为。
type Config struct {
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	DevRoutes      bool     `yaml:"dev_routes" json:"dev_routes"`
	SecureCookies  bool     `yaml:"secure_cookies" json:"secure_cookies"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" json:"rate_limit_burst"`
}

// JobService 抽象职位服务接口。
type JobService interface {
	Create(ctx context.Context, req job.CreateRequest) (*model.Job, error)
	Update(ctx context.Context, id uint, req job.UpdateRequest) (*model.Job, error)
	SetStatus(ctx context.Context, id uint, status string) (*model.Job, error)
	Delete(ctx context.Context, id uint) error
	GetPublished(ctx context.Context, slug string) (*model.Job, error)
	List(ctx context.Context, req job.ListRequest) ([]model.Job, model.PageMeta, error)
}

// BlogService 抽象博客服务接口。
type BlogService interface {
	Create(ctx context.Context, form blog.Form, banner, extra *multipart.FileHeader) (*model.Blog, error)
	Update(ctx context.Context, id uint, form blog.Form, banner, extra *multipart.FileHeader) (*model.Blog, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*model.Blog, error)
	List(ctx context.Context, req blog.ListRequest) ([]model.Blog, model.PageMeta, error)
}

// CandidateService 抽象申请服务接口。
type CandidateService interface {
	Apply(ctx context.Context, jobID string, cv *multipart.FileHeader) (*model.Candidate, error)
	List(ctx context.Context) ([]storage.CandidateWithJob, error)
}

// AdminStore 提供登录与种子路由所需的管理员读写。
type AdminStore interface {
	auth.AdminStore
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	UpdateAdminPassword(ctx context.Context, email, passwordHash string) error
}

// Handler 聚合各服务并实现路由处理。
type Handler struct {
	jobs       JobService
	blogs      BlogService
	candidates CandidateService
	admins     AdminStore
	tokens     *auth.Manager
	cfg        Config
	logger     *log.Logger
}

// NewHandler 构造 HTTP 多路复用器，uploadRoot 为静态文件根目录。
func NewHandler(jobs JobService, blogs BlogService, candidates CandidateService, admins AdminStore, tokens *auth.Manager, uploadRoot string, cfg Config) http.Handler {
	h := &Handler{
		jobs:       jobs,
		blogs:      blogs,
		candidates: candidates,
		admins:     admins,
		tokens:     tokens,
		cfg:        cfg,
		logger:     log.New(os.Stdout, "[api] ", log.LstdFlags),
	}

	limiter := newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	protect := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireAdmin(tokens, admins, fn)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("POST /api/admin/login", limiter.wrap(http.HandlerFunc(h.login)))
	if cfg.DevRoutes {
		mux.HandleFunc("POST /api/admin/seed", h.seedAdmin)
		mux.HandleFunc("POST /api/admin/reset-password", h.resetPassword)
	}

	mux.Handle("GET /api/admin/jobs", protect(h.adminListJobs))
	mux.Handle("POST /api/admin/jobs", protect(h.createJob))
	mux.Handle("PUT /api/admin/jobs/{id}", protect(h.updateJob))
	mux.Handle("PATCH /api/admin/jobs/{id}/status", protect(h.setJobStatus))
	mux.Handle("DELETE /api/admin/jobs/{id}", protect(h.deleteJob))

	mux.HandleFunc("GET /api/jobs", h.publicListJobs)
	mux.HandleFunc("GET /api/jobs/{slug}", h.publicGetJob)

	mux.HandleFunc("GET /api/blogs", h.listBlogs)
	mux.HandleFunc("GET /api/blogs/{id}", h.getBlog)
	mux.Handle("POST /api/blogs", protect(h.createBlog))
	mux.Handle("PUT /api/blogs/{id}", protect(h.updateBlog))
	mux.Handle("DELETE /api/blogs/{id}", protect(h.deleteBlog))

	mux.Handle("POST /api/candidates", limiter.wrap(http.HandlerFunc(h.applyCandidate)))
	mux.Handle("GET /api/candidates", protect(h.listCandidates))

	if uploadRoot != "" {
		fileServer := http.FileServer(http.Dir(uploadRoot))
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", fileServer))
	}

	var root http.Handler = recoverMiddleware(h.logger, mux)
	if len(cfg.AllowedOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		})
		root = c.Handler(root)
	}
	return root
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError 将服务层错误映射为统一的 JSON 响应。
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if ve, ok := model.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": ve.Error(), "errors": ve.Fields})
		return
	}
	if errors.Is(err, model.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
		return
	}
	if errors.Is(err, upload.ErrTooLarge) || errors.Is(err, upload.ErrNotImage) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	h.logger.Printf("request error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error"})
}

func idParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, model.Invalid("id")
	}
	return uint(id), nil
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
