// Package upload 负责 multipart 文件的落盘与清理，所有文件存放于统一的上传根目录。
package upload

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// URLPrefix 是上传内容对外暴露的路径前缀。
const URLPrefix = "/uploads"

var (
	// ErrTooLarge 表示文件超出该类别的大小上限。
	ErrTooLarge = errors.New("file exceeds size limit")
	// ErrNotImage 表示图片字段收到了非图片内容。
	ErrNotImage = errors.New("file is not an image")
)

// Kind 描述一类上传文件的存放子目录与过滤规则。
type Kind struct {
	Subdir    string
	MaxBytes  int64
	ImageOnly bool
}

// 预置的两类上传：博客图片限 4MB 且必须是图片，简历限 10MB 不限类型。
var (
	Image  = Kind{Subdir: "blogs", MaxBytes: 4 << 20, ImageOnly: true}
	Resume = Kind{Subdir: "resumes", MaxBytes: 10 << 20}
)

// Store 管理上传根目录。
type Store struct {
	root   string
	logger *log.Logger
}

// NewStore 创建 Store 并确保子目录存在。
func NewStore(root string, logger *log.Logger) (*Store, error) {
	if root == "" {
		root = "uploads"
	}
	if logger == nil {
		logger = log.New(os.Stdout, "[upload] ", log.LstdFlags)
	}
	for _, kind := range []Kind{Image, Resume} {
		if err := os.MkdirAll(filepath.Join(root, kind.Subdir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Store{root: root, logger: logger}, nil
}

// Root 返回上传根目录的文件系统路径。
func (s *Store) Root() string {
	return s.root
}

// Save 校验并保存上传文件，返回以 /uploads 开头的相对路径。
// 文件名使用毫秒时间戳前缀加净化后的原始名，避免并发覆盖。
func (s *Store) Save(fh *multipart.FileHeader, kind Kind) (string, error) {
	if kind.MaxBytes > 0 && fh.Size > kind.MaxBytes {
		return "", fmt.Errorf("%s: %w", fh.Filename, ErrTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if kind.ImageOnly {
		if err := checkImage(src); err != nil {
			return "", fmt.Errorf("%s: %w", fh.Filename, err)
		}
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(fh.Filename))
	dst := filepath.Join(s.root, kind.Subdir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return path.Join(URLPrefix, kind.Subdir, name), nil
}

// RemoveIfLocal 尽力删除本地上传文件：外部 URL、空值与不存在的文件均为 no-op，
// 删除失败只记录日志，绝不影响外层请求。
func (s *Store) RemoveIfLocal(p string) {
	if p == "" {
		return
	}
	if !strings.HasPrefix(p, URLPrefix+"/") {
		return
	}
	rel := strings.TrimPrefix(p, URLPrefix+"/")
	rel = path.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		s.logger.Printf("remove upload %s: %v", p, err)
	}
}

func checkImage(src multipart.File) error {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read upload head: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}
	return nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
