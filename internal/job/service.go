// Package job 实现职位的创建、查询、更新与删除，创建与改名时负责 slug 分配。
package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-portal/internal/model"
	"job-portal/internal/sanitize"
	"job-portal/internal/slug"
	"job-portal/internal/storage"

	"gorm.io/datatypes"
)

// 唯一索引冲突后的补救重试次数，正常情况下 Unique 的预查已避开冲突。
const conflictRetries = 3

// Store 抽象存储接口，便于测试替换。
type Store interface {
	CreateJob(ctx context.Context, job *model.Job) error
	ListJobs(ctx context.Context, opts storage.JobQueryOptions) ([]model.Job, error)
	CountJobs(ctx context.Context, opts storage.JobQueryOptions) (int64, error)
	GetJobByID(ctx context.Context, id uint) (*model.Job, error)
	GetJobBySlug(ctx context.Context, slug, status string) (*model.Job, error)
	UpdateJob(ctx context.Context, id uint, values map[string]any) (*model.Job, error)
	DeleteJob(ctx context.Context, id uint) error
}

// CreateRequest 是创建职位的请求体。
type CreateRequest struct {
	Title               string           `json:"title"`
	Location            string           `json:"location"`
	Department          string           `json:"department"`
	JobType             string           `json:"jobType"`
	WorkMode            string           `json:"workMode"`
	ShortDescription    string           `json:"shortDescription"`
	FullDescription     string           `json:"fullDescription"`
	Responsibilities    string           `json:"responsibilities"`
	Requirements        string           `json:"requirements"`
	Skills              model.StringList `json:"skills"`
	ApplicationEmail    string           `json:"applicationEmail"`
	ApplicationLink     string           `json:"applicationLink"`
	ApplicationDeadline *time.Time       `json:"applicationDeadline"`
	Status              string           `json:"status"`
	ShowOnHomepage      bool             `json:"showOnHomepage"`
	Slug                string           `json:"slug"`
}

// UpdateRequest 是局部更新请求体，nil 字段表示不修改。
type UpdateRequest struct {
	Title               *string           `json:"title"`
	Location            *string           `json:"location"`
	Department          *string           `json:"department"`
	JobType             *string           `json:"jobType"`
	WorkMode            *string           `json:"workMode"`
	ShortDescription    *string           `json:"shortDescription"`
	FullDescription     *string           `json:"fullDescription"`
	Responsibilities    *string           `json:"responsibilities"`
	Requirements        *string           `json:"requirements"`
	Skills              *model.StringList `json:"skills"`
	ApplicationEmail    *string           `json:"applicationEmail"`
	ApplicationLink     *string           `json:"applicationLink"`
	ApplicationDeadline *time.Time        `json:"applicationDeadline"`
	Status              *string           `json:"status"`
	ShowOnHomepage      *bool             `json:"showOnHomepage"`
	Slug                *string           `json:"slug"`
}

// ListRequest 描述列表查询条件，PublicOnly 时状态强制为 published。
type ListRequest struct {
	Page       int
	Limit      int
	Status     string
	JobType    string
	Location   string
	Search     string
	PublicOnly bool
}

// Service 负责职位的校验、清洗与持久化。
type Service struct {
	store Store
	slugs *slug.Generator
}

// NewService 创建职位服务。
func NewService(store Store, slugs *slug.Generator) *Service {
	return &Service{store: store, slugs: slugs}
}

// Create 校验请求、清洗描述并分配唯一 slug 后写入。
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Job, error) {
	title := strings.TrimSpace(req.Title)
	var invalid []string
	if len(title) < 3 {
		invalid = append(invalid, "title")
	}
	if req.JobType != "" && !model.ValidJobType(req.JobType) {
		invalid = append(invalid, "jobType")
	}
	if req.WorkMode != "" && !model.ValidWorkMode(req.WorkMode) {
		invalid = append(invalid, "workMode")
	}
	if req.Status != "" && !model.ValidStatus(req.Status) {
		invalid = append(invalid, "status")
	}
	if len(invalid) > 0 {
		return nil, model.Invalid(invalid...)
	}

	assigned, err := s.slugs.Unique(ctx, title, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("assign slug: %w", err)
	}

	job := &model.Job{
		Title:               title,
		Location:            strings.TrimSpace(req.Location),
		Department:          strings.TrimSpace(req.Department),
		JobType:             req.JobType,
		WorkMode:            req.WorkMode,
		ShortDescription:    req.ShortDescription,
		FullDescription:     sanitize.HTML(req.FullDescription),
		Responsibilities:    req.Responsibilities,
		Requirements:        req.Requirements,
		Skills:              datatypes.NewJSONSlice([]string(req.Skills)),
		ApplicationEmail:    strings.TrimSpace(req.ApplicationEmail),
		ApplicationLink:     strings.TrimSpace(req.ApplicationLink),
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              req.Status,
		ShowOnHomepage:      req.ShowOnHomepage,
		Slug:                assigned,
	}

	base := slugBase(title, req.Slug)
	for attempt := 0; ; attempt++ {
		err := s.store.CreateJob(ctx, job)
		if err == nil {
			return job, nil
		}
		// 预查与写入之间存在并发窗口，唯一索引兜底后换后缀重试。
		if errors.Is(err, storage.ErrDuplicateSlug) && attempt < conflictRetries {
			job.Slug = s.slugs.Suffixed(base)
			continue
		}
		return nil, err
	}
}

// Update 对职位做字段级局部更新，提供 slug 或标题不改变 slug，
// 仅当请求显式给出 slug 时重新分配。
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*model.Job, error) {
	values := map[string]any{}
	var invalid []string

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < 3 {
			invalid = append(invalid, "title")
		} else {
			values["title"] = title
		}
	}
	if req.JobType != nil {
		if !model.ValidJobType(*req.JobType) {
			invalid = append(invalid, "jobType")
		} else {
			values["job_type"] = *req.JobType
		}
	}
	if req.WorkMode != nil {
		if !model.ValidWorkMode(*req.WorkMode) {
			invalid = append(invalid, "workMode")
		} else {
			values["work_mode"] = *req.WorkMode
		}
	}
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			invalid = append(invalid, "status")
		} else {
			values["status"] = *req.Status
		}
	}
	if len(invalid) > 0 {
		return nil, model.Invalid(invalid...)
	}

	if req.Location != nil {
		values["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Department != nil {
		values["department"] = strings.TrimSpace(*req.Department)
	}
	if req.ShortDescription != nil {
		values["short_description"] = *req.ShortDescription
	}
	if req.FullDescription != nil {
		values["full_description"] = sanitize.HTML(*req.FullDescription)
	}
	if req.Responsibilities != nil {
		values["responsibilities"] = *req.Responsibilities
	}
	if req.Requirements != nil {
		values["requirements"] = *req.Requirements
	}
	if req.Skills != nil {
		values["skills"] = datatypes.NewJSONSlice([]string(*req.Skills))
	}
	if req.ApplicationEmail != nil {
		values["application_email"] = strings.TrimSpace(*req.ApplicationEmail)
	}
	if req.ApplicationLink != nil {
		values["application_link"] = strings.TrimSpace(*req.ApplicationLink)
	}
	if req.ApplicationDeadline != nil {
		values["application_deadline"] = *req.ApplicationDeadline
	}
	if req.ShowOnHomepage != nil {
		values["show_on_homepage"] = *req.ShowOnHomepage
	}
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		assigned, err := s.slugs.Unique(ctx, "", *req.Slug)
		if err != nil {
			return nil, fmt.Errorf("assign slug: %w", err)
		}
		values["slug"] = assigned
	}

	return s.store.UpdateJob(ctx, id, values)
}

// SetStatus 切换职位的发布状态。
func (s *Service) SetStatus(ctx context.Context, id uint, status string) (*model.Job, error) {
	if !model.ValidStatus(status) {
		return nil, model.Invalid("status")
	}
	return s.store.UpdateJob(ctx, id, map[string]any{"status": status})
}

// Delete 删除职位。
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteJob(ctx, id)
}

// Get 根据 ID 获取职位，含草稿。
func (s *Service) Get(ctx context.Context, id uint) (*model.Job, error) {
	return s.store.GetJobByID(ctx, id)
}

// GetPublished 根据 slug 获取已发布职位，草稿视为不存在。
func (s *Service) GetPublished(ctx context.Context, slugValue string) (*model.Job, error) {
	return s.store.GetJobBySlug(ctx, slugValue, model.StatusPublished)
}

// List 返回分页职位列表与分页信息。
func (s *Service) List(ctx context.Context, req ListRequest) ([]model.Job, model.PageMeta, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	status := req.Status
	if req.PublicOnly {
		// 公开接口无论查询参数如何都只返回已发布职位。
		status = model.StatusPublished
	} else if status != "" && !model.ValidStatus(status) {
		return nil, model.PageMeta{}, model.Invalid("status")
	}

	opts := storage.JobQueryOptions{
		Status:   status,
		JobType:  req.JobType,
		Location: req.Location,
		Search:   req.Search,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	jobs, err := s.store.ListJobs(ctx, opts)
	if err != nil {
		return nil, model.PageMeta{}, err
	}
	total, err := s.store.CountJobs(ctx, opts)
	if err != nil {
		return nil, model.PageMeta{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return jobs, model.PageMeta{Total: total, Page: page, Limit: limit, Pages: pages}, nil
}

func slugBase(title, explicit string) string {
	base := slug.Derive(explicit)
	if base == "" {
		base = slug.Derive(title)
	}
	if base == "" {
		base = "job"
	}
	return base
}
