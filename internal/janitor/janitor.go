// Package janitor 周期性清理上传根目录中不再被任何记录引用的文件。
package janitor

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"job-portal/internal/upload"

	"golang.org/x/sync/errgroup"
)

// Config 用于清理任务配置。
type Config struct {
	Interval string `yaml:"interval" json:"interval"`
	Grace    string `yaml:"grace" json:"grace"`
}

// Store 抽象存储接口，便于测试替换。
type Store interface {
	ReferencedUploads(ctx context.Context) (map[string]struct{}, error)
}

// Janitor 负责周期性扫描上传目录并删除孤儿文件。
// 新上传与写库之间存在时间差，宽限期内的文件一律保留。
type Janitor struct {
	store     Store
	root      string
	interval  time.Duration
	grace     time.Duration
	running   atomic.Bool
	newTicker func(time.Duration) ticker
	now       func() time.Time
	logger    *log.Logger
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewJanitor 创建 Janitor，解析配置的间隔与宽限期。
func NewJanitor(store Store, root string, cfg Config) *Janitor {
	interval := 6 * time.Hour
	if cfg.Interval != "" {
		if d, err := time.ParseDuration(cfg.Interval); err == nil && d > 0 {
			interval = d
		}
	}
	grace := 24 * time.Hour
	if cfg.Grace != "" {
		if d, err := time.ParseDuration(cfg.Grace); err == nil && d > 0 {
			grace = d
		}
	}

	return &Janitor{
		store:     store,
		root:      root,
		interval:  interval,
		grace:     grace,
		newTicker: defaultTicker,
		now:       time.Now,
		logger:    log.New(os.Stdout, "[janitor] ", log.LstdFlags),
	}
}

// Start 启动清理循环，直到上下文取消。
func (j *Janitor) Start(ctx context.Context) error {
	if j.store == nil || j.root == "" {
		return fmt.Errorf("janitor missing dependencies")
	}

	g, ctx := errgroup.WithContext(ctx)

	tick := j.newTicker(j.interval)
	ch := tick.C()

	g.Go(func() error {
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ch:
				if removed, err := j.runOnce(ctx); err != nil {
					j.logger.Printf("sweep error: %v", err)
				} else if removed > 0 {
					j.logger.Printf("removed %d orphaned uploads", removed)
				}
			drain:
				for {
					select {
					case <-ch:
						continue
					default:
						break drain
					}
				}
			}
		}
	})

	return g.Wait()
}

// RunOnce 对外暴露单次清理接口。
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	return j.runOnce(ctx)
}

func (j *Janitor) runOnce(ctx context.Context) (int, error) {
	if j.running.Swap(true) {
		return 0, nil
	}
	defer j.running.Store(false)

	refs, err := j.store.ReferencedUploads(ctx)
	if err != nil {
		return 0, fmt.Errorf("load referenced uploads: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	removed := 0

	err = filepath.WalkDir(j.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(j.root, path)
		if err != nil {
			return err
		}
		urlPath := upload.URLPrefix + "/" + filepath.ToSlash(rel)
		if _, ok := refs[urlPath]; ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			j.logger.Printf("remove orphan %s: %v", urlPath, err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("walk upload root: %w", err)
	}
	return removed, nil
}

func defaultTicker(d time.Duration) ticker {
	t := time.NewTicker(d)
	return tickerWrapper{t}
}

type tickerWrapper struct {
	*time.Ticker
}

func (t tickerWrapper) C() <-chan time.Time { return t.Ticker.C }
func (t tickerWrapper) Stop()               { t.Ticker.Stop() }
