package notifier

import (
	"context"
	"log"
	"os"
)

// LogNotifier 仅打印新申请，适合未配置 SMTP 的开发环境。
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier 创建日志通知器，未提供 logger 时默认输出到标准输出。
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.New(os.Stdout, "[notify] ", log.LstdFlags)
	}
	return &LogNotifier{logger: logger}
}

// Notify 打印新申请信息。
func (n LogNotifier) Notify(ctx context.Context, app Application) error {
	n.logger.Printf("new application: job=%q resume=%s", app.JobTitle, app.Resume)
	return nil
}
