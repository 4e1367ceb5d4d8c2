// Package candidate 处理职位申请的提交与后台查询。
package candidate

import (
	"context"
	"log"
	"mime/multipart"
	"os"
	"strconv"

	"job-portal/internal/model"
	"job-portal/internal/notifier"
	"job-portal/internal/storage"
	"job-portal/internal/upload"
)

// Store 抽象存储接口，便于测试替换。
type Store interface {
	CreateCandidate(ctx context.Context, cand *model.Candidate) error
	ListCandidates(ctx context.Context) ([]storage.CandidateWithJob, error)
	GetJobByID(ctx context.Context, id uint) (*model.Job, error)
}

// Files 抽象简历文件的保存与清理。
type Files interface {
	Save(fh *multipart.FileHeader, kind upload.Kind) (string, error)
	RemoveIfLocal(path string)
}

// Notifier 用于通知管理员有新申请。
type Notifier interface {
	Notify(ctx context.Context, app notifier.Application) error
}

// Service 负责申请的校验、简历落盘与通知。
type Service struct {
	store  Store
	files  Files
	notif  Notifier
	logger *log.Logger
}

// NewService 创建申请服务，notif 可为 nil。
func NewService(store Store, files Files, notif Notifier) *Service {
	return &Service{
		store:  store,
		files:  files,
		notif:  notif,
		logger: log.New(os.Stdout, "[candidate] ", log.LstdFlags),
	}
}

// Apply 提交一次职位申请。必填字段校验在任何文件写入之前完成，
// 简历路径写库失败时会回收已保存的文件。
func (s *Service) Apply(ctx context.Context, jobID string, cv *multipart.FileHeader) (*model.Candidate, error) {
	var missing []string
	if jobID == "" {
		missing = append(missing, "jobId")
	}
	if cv == nil {
		missing = append(missing, "resume file (cv)")
	}
	if len(missing) > 0 {
		return nil, model.Invalid(missing...)
	}

	id, err := strconv.ParseUint(jobID, 10, 64)
	if err != nil {
		return nil, model.Invalid("jobId")
	}

	job, err := s.store.GetJobByID(ctx, uint(id))
	if err != nil {
		return nil, err
	}

	path, err := s.files.Save(cv, upload.Resume)
	if err != nil {
		return nil, err
	}

	cand := &model.Candidate{
		JobID:    job.ID,
		JobTitle: job.Title,
		Resume:   path,
	}
	if err := s.store.CreateCandidate(ctx, cand); err != nil {
		s.files.RemoveIfLocal(path)
		return nil, err
	}

	if s.notif != nil {
		app := notifier.Application{
			CandidateID: cand.ID,
			JobTitle:    cand.JobTitle,
			Resume:      cand.Resume,
			AppliedAt:   cand.CreatedAt,
		}
		// 通知只是附带动作，失败不影响申请结果。
		if err := s.notif.Notify(ctx, app); err != nil {
			s.logger.Printf("notify application %d: %v", cand.ID, err)
		}
	}

	return cand, nil
}

// List 返回按时间倒序的申请列表，带职位信息。
func (s *Service) List(ctx context.Context) ([]storage.CandidateWithJob, error) {
	return s.store.ListCandidates(ctx)
}
