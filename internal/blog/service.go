// Package blog 实现博客的增删改查，并维护图片文件与记录的归属关系：
// 替换或删除记录字段时清理旧文件。
package blog

import (
	"context"
	"mime/multipart"
	"strings"

	"job-portal/internal/model"
	"job-portal/internal/storage"
	"job-portal/internal/upload"

	"gorm.io/datatypes"
)

// Store 抽象存储接口，便于测试替换。
type Store interface {
	CreateBlog(ctx context.Context, blog *model.Blog) error
	ListBlogs(ctx context.Context, opts storage.BlogQueryOptions) ([]model.Blog, error)
	CountBlogs(ctx context.Context, opts storage.BlogQueryOptions) (int64, error)
	GetBlog(ctx context.Context, id uint) (*model.Blog, error)
	SaveBlog(ctx context.Context, blog *model.Blog) error
	DeleteBlog(ctx context.Context, id uint) error
}

// Files 抽象图片文件的保存与清理。
type Files interface {
	Save(fh *multipart.FileHeader, kind upload.Kind) (string, error)
	RemoveIfLocal(path string)
}

// Form 是 multipart 表单解析出的博客字段，nil 表示该字段未提交。
// Services 与 FAQs 为 JSON 编码的字符串，解析失败回退为空列表。
type Form struct {
	City            *string
	Title           *string
	MetaTitle       *string
	MetaDescription *string
	Description     *string
	Services        *string
	FAQs            *string
	RedirectLink    *string
}

// ListRequest 描述博客列表查询条件。
type ListRequest struct {
	City  string
	Page  int
	Limit int
}

// Service 负责博客的校验与持久化。
type Service struct {
	store Store
	files Files
}

// NewService 创建博客服务。
func NewService(store Store, files Files) *Service {
	return &Service{store: store, files: files}
}

// Create 新建博客。必填字段校验在任何文件写入之前完成；
// 写库失败时回收已保存的图片。
func (s *Service) Create(ctx context.Context, form Form, banner, extra *multipart.FileHeader) (*model.Blog, error) {
	var missing []string
	if form.Title == nil || strings.TrimSpace(*form.Title) == "" {
		missing = append(missing, "title")
	}
	if form.Description == nil || strings.TrimSpace(*form.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, model.Invalid(missing...)
	}

	blog := &model.Blog{
		Title:       strings.TrimSpace(*form.Title),
		Description: *form.Description,
		Services:    datatypes.NewJSONSlice([]string(nil)),
		FAQs:        datatypes.NewJSONSlice([]model.FAQ(nil)),
	}
	if form.City != nil {
		blog.City = strings.TrimSpace(*form.City)
	}
	if form.MetaTitle != nil {
		blog.MetaTitle = strings.TrimSpace(*form.MetaTitle)
	}
	if form.MetaDescription != nil {
		blog.MetaDescription = strings.TrimSpace(*form.MetaDescription)
	}
	if form.RedirectLink != nil {
		blog.RedirectLink = strings.TrimSpace(*form.RedirectLink)
	}
	if form.Services != nil {
		blog.Services = datatypes.NewJSONSlice(model.ParseStringList(*form.Services))
	}
	if form.FAQs != nil {
		blog.FAQs = datatypes.NewJSONSlice(model.ParseFAQList(*form.FAQs))
	}

	saved, err := s.saveImages(banner, extra)
	if err != nil {
		return nil, err
	}
	blog.BannerImage = saved.banner
	blog.ExtraImage = saved.extra

	if err := s.store.CreateBlog(ctx, blog); err != nil {
		saved.discard(s.files)
		return nil, err
	}
	return blog, nil
}

// Update 局部更新博客，新图片落盘成功后删除旧图片再替换路径。
func (s *Service) Update(ctx context.Context, id uint, form Form, banner, extra *multipart.FileHeader) (*model.Blog, error) {
	existing, err := s.store.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}

	if form.Title != nil && strings.TrimSpace(*form.Title) != "" {
		existing.Title = strings.TrimSpace(*form.Title)
	}
	if form.Description != nil && strings.TrimSpace(*form.Description) != "" {
		existing.Description = *form.Description
	}
	if form.City != nil {
		existing.City = strings.TrimSpace(*form.City)
	}
	if form.MetaTitle != nil {
		existing.MetaTitle = strings.TrimSpace(*form.MetaTitle)
	}
	if form.MetaDescription != nil {
		existing.MetaDescription = strings.TrimSpace(*form.MetaDescription)
	}
	if form.RedirectLink != nil {
		existing.RedirectLink = strings.TrimSpace(*form.RedirectLink)
	}
	if form.Services != nil {
		existing.Services = datatypes.NewJSONSlice(model.ParseStringList(*form.Services))
	}
	if form.FAQs != nil {
		existing.FAQs = datatypes.NewJSONSlice(model.ParseFAQList(*form.FAQs))
	}

	saved, err := s.saveImages(banner, extra)
	if err != nil {
		return nil, err
	}
	if saved.banner != "" {
		s.files.RemoveIfLocal(existing.BannerImage)
		existing.BannerImage = saved.banner
	}
	if saved.extra != "" {
		s.files.RemoveIfLocal(existing.ExtraImage)
		existing.ExtraImage = saved.extra
	}

	if err := s.store.SaveBlog(ctx, existing); err != nil {
		saved.discard(s.files)
		return nil, err
	}
	return existing, nil
}

// Delete 先清理归属文件再删除记录。
func (s *Service) Delete(ctx context.Context, id uint) error {
	existing, err := s.store.GetBlog(ctx, id)
	if err != nil {
		return err
	}
	s.files.RemoveIfLocal(existing.BannerImage)
	s.files.RemoveIfLocal(existing.ExtraImage)
	return s.store.DeleteBlog(ctx, id)
}

// Get 根据 ID 获取博客。
func (s *Service) Get(ctx context.Context, id uint) (*model.Blog, error) {
	return s.store.GetBlog(ctx, id)
}

// List 返回分页博客列表与分页信息。
func (s *Service) List(ctx context.Context, req ListRequest) ([]model.Blog, model.PageMeta, error) {
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

	opts := storage.BlogQueryOptions{City: req.City, Limit: limit, Offset: (page - 1) * limit}
	blogs, err := s.store.ListBlogs(ctx, opts)
	if err != nil {
		return nil, model.PageMeta{}, err
	}
	total, err := s.store.CountBlogs(ctx, opts)
	if err != nil {
		return nil, model.PageMeta{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return blogs, model.PageMeta{Total: total, Page: page, Limit: limit, Pages: pages}, nil
}

type savedImages struct {
	banner string
	extra  string
}

func (s *Service) saveImages(banner, extra *multipart.FileHeader) (savedImages, error) {
	var saved savedImages
	if banner != nil {
		path, err := s.files.Save(banner, upload.Image)
		if err != nil {
			return savedImages{}, err
		}
		saved.banner = path
	}
	if extra != nil {
		path, err := s.files.Save(extra, upload.Image)
		if err != nil {
			// 前一个文件已落盘，回收后再返回错误。
			saved.discard(s.files)
			return savedImages{}, err
		}
		saved.extra = path
	}
	return saved, nil
}

func (si savedImages) discard(files Files) {
	files.RemoveIfLocal(si.banner)
	files.RemoveIfLocal(si.extra)
}
