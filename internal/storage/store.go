package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"job-portal/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrDuplicateSlug 表示唯一索引冲突，职位创建方可据此换后缀重试。
var ErrDuplicateSlug = errors.New("slug already exists")

// Store 封装 SQLite 数据库访问，负责管理员、职位、申请与博客的读写。
type Store struct {
	db *gorm.DB
}

// JobQueryOptions 提供职位列表的过滤与分页条件。
type JobQueryOptions struct {
	Status   string
	JobType  string
	Location string
	Search   string
	Limit    int
	Offset   int
}

// BlogQueryOptions 提供博客列表的过滤与分页条件。
type BlogQueryOptions struct {
	City   string
	Limit  int
	Offset int
}

// CandidateWithJob 是申请记录与职位信息的联查结果。
type CandidateWithJob struct {
	ID          uint      `json:"id"`
	JobID       uint      `json:"jobId"`
	JobTitle    string    `json:"jobTitle"`
	Resume      string    `json:"resume"`
	JobLocation string    `json:"jobLocation"`
	JobType     string    `json:"jobType"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewStore 创建 Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&model.Admin{}, &model.Job{}, &model.Candidate{}, &model.Blog{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// CreateAdmin 新增管理员。
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// GetAdminByEmail 按邮箱获取管理员。
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.WithContext(ctx).First(&admin, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return &admin, nil
}

// GetAdminByID 按 ID 获取管理员。
func (s *Store) GetAdminByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get admin by id: %w", err)
	}
	return &admin, nil
}

// UpdateAdminPassword 覆盖指定邮箱管理员的密码哈希。
func (s *Store) UpdateAdminPassword(ctx context.Context, email, passwordHash string) error {
	tx := s.db.WithContext(ctx).Model(&model.Admin{}).Where("email = ?", email).Update("password_hash", passwordHash)
	if tx.Error != nil {
		return fmt.Errorf("update admin password: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SlugExists 判断职位 slug 是否已被占用。
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Job{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count > 0, nil
}

// CreateJob 写入职位，slug 唯一索引冲突时返回 ErrDuplicateSlug。
func (s *Store) CreateJob(ctx context.Context, job *model.Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// ListJobs 返回按创建时间倒序的职位列表。
func (s *Store) ListJobs(ctx context.Context, opts JobQueryOptions) ([]model.Job, error) {
	var jobs []model.Job
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	query := applyJobFilters(s.db.WithContext(ctx).Model(&model.Job{}), opts).Order("created_at DESC")
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// CountJobs 返回满足过滤条件的职位数量。
func (s *Store) CountJobs(ctx context.Context, opts JobQueryOptions) (int64, error) {
	var total int64
	query := applyJobFilters(s.db.WithContext(ctx).Model(&model.Job{}), opts)
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return total, nil
}

// GetJobByID 根据 ID 获取职位。
func (s *Store) GetJobByID(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// GetJobBySlug 根据 slug 获取职位，status 非空时附加状态过滤。
func (s *Store) GetJobBySlug(ctx context.Context, slug, status string) (*model.Job, error) {
	query := s.db.WithContext(ctx).Where("slug = ?", slug)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var job model.Job
	if err := query.First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get job by slug: %w", err)
	}
	return &job, nil
}

// UpdateJob 对指定职位做字段级局部更新，返回更新后的记录。
func (s *Store) UpdateJob(ctx context.Context, id uint, values map[string]any) (*model.Job, error) {
	job, err := s.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if err := s.db.WithContext(ctx).Model(job).Updates(values).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrDuplicateSlug
			}
			return nil, fmt.Errorf("update job: %w", err)
		}
	}
	return s.GetJobByID(ctx, id)
}

// DeleteJob 删除职位。
func (s *Store) DeleteJob(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).Delete(&model.Job{}, "id = ?", id)
	if tx.Error != nil {
		return fmt.Errorf("delete job: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CreateCandidate 新增职位申请记录。
func (s *Store) CreateCandidate(ctx context.Context, cand *model.Candidate) error {
	if err := s.db.WithContext(ctx).Create(cand).Error; err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

// ListCandidates 返回按申请时间倒序的申请列表，联查职位信息。
func (s *Store) ListCandidates(ctx context.Context) ([]CandidateWithJob, error) {
	var rows []CandidateWithJob
	err := s.db.WithContext(ctx).Table("candidates").
		Select("candidates.id, candidates.job_id, candidates.job_title, candidates.resume, candidates.created_at, jobs.location AS job_location, jobs.job_type AS job_type").
		Joins("LEFT JOIN jobs ON jobs.id = candidates.job_id").
		Order("candidates.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return rows, nil
}

// CreateBlog 新增博客。
func (s *Store) CreateBlog(ctx context.Context, blog *model.Blog) error {
	if err := s.db.WithContext(ctx).Create(blog).Error; err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

// ListBlogs 返回按创建时间倒序的博客列表。
func (s *Store) ListBlogs(ctx context.Context, opts BlogQueryOptions) ([]model.Blog, error) {
	var blogs []model.Blog
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	query := s.db.WithContext(ctx).Model(&model.Blog{}).Order("created_at DESC")
	if opts.City != "" {
		query = query.Where("city = ?", opts.City)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if err := query.Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, nil
}

// CountBlogs 返回满足过滤条件的博客数量。
func (s *Store) CountBlogs(ctx context.Context, opts BlogQueryOptions) (int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&model.Blog{})
	if opts.City != "" {
		query = query.Where("city = ?", opts.City)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count blogs: %w", err)
	}
	return total, nil
}

// GetBlog 根据 ID 获取博客。
func (s *Store) GetBlog(ctx context.Context, id uint) (*model.Blog, error) {
	var blog model.Blog
	if err := s.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return &blog, nil
}

// SaveBlog 整体保存博客记录。
func (s *Store) SaveBlog(ctx context.Context, blog *model.Blog) error {
	if err := s.db.WithContext(ctx).Save(blog).Error; err != nil {
		return fmt.Errorf("save blog: %w", err)
	}
	return nil
}

// DeleteBlog 删除博客记录。
func (s *Store) DeleteBlog(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).Delete(&model.Blog{}, "id = ?", id)
	if tx.Error != nil {
		return fmt.Errorf("delete blog: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ReferencedUploads 汇总所有记录引用的上传路径，供清理任务比对。
func (s *Store) ReferencedUploads(ctx context.Context) (map[string]struct{}, error) {
	refs := make(map[string]struct{})

	var resumes []string
	if err := s.db.WithContext(ctx).Model(&model.Candidate{}).Pluck("resume", &resumes).Error; err != nil {
		return nil, fmt.Errorf("pluck resumes: %w", err)
	}
	var banners, extras []string
	if err := s.db.WithContext(ctx).Model(&model.Blog{}).Pluck("banner_image", &banners).Error; err != nil {
		return nil, fmt.Errorf("pluck banner images: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.Blog{}).Pluck("extra_image", &extras).Error; err != nil {
		return nil, fmt.Errorf("pluck extra images: %w", err)
	}

	for _, list := range [][]string{resumes, banners, extras} {
		for _, p := range list {
			if p != "" {
				refs[p] = struct{}{}
			}
		}
	}
	return refs, nil
}

func applyJobFilters(db *gorm.DB, opts JobQueryOptions) *gorm.DB {
	if opts.Status != "" {
		db = db.Where("status = ?", opts.Status)
	}
	if opts.JobType != "" {
		db = db.Where("job_type = ?", opts.JobType)
	}
	if opts.Location != "" {
		db = db.Where("location LIKE ?", "%"+opts.Location+"%")
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		db = db.Where("title LIKE ? OR full_description LIKE ? OR location LIKE ?", pattern, pattern, pattern)
	}
	return db
}
