package app

import (
	"sync"

	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/logging"
)

// noticeHost is the session's host. It records notices on the buffer,
// logs them and forwards them to the panel once one is attached.
type noticeHost struct {
	*host.Buffer
	logger *logging.Logger

	mu     sync.Mutex
	notify func(title, message string)
}

func newNoticeHost(buf *host.Buffer, logger *logging.Logger) *noticeHost {
	return &noticeHost{Buffer: buf, logger: logger.WithComponent("notice")}
}

// Notify records, logs and forwards a notice.
func (h *noticeHost) Notify(title, message string) {
	h.Buffer.Notify(title, message)
	h.logger.Info("%s: %s", title, message)

	h.mu.Lock()
	fn := h.notify
	h.mu.Unlock()
	if fn != nil {
		fn(title, message)
	}
}

func (h *noticeHost) setNotifier(fn func(title, message string)) {
	h.mu.Lock()
	h.notify = fn
	h.mu.Unlock()
}

var _ host.Host = (*noticeHost)(nil)
