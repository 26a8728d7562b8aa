// Package diag emits deduplicated diagnostics.
//
// A Notifier writes each distinct warning message once for its whole lifetime;
// repeats of the same text are dropped. Notifiers are never reset.
package diag

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Notifier logs warnings at most once per distinct message text.
// It is safe for concurrent use.
type Notifier struct {
	logger *zap.Logger

	mu   sync.Mutex
	seen map[uint64]struct{}
}

// New returns a Notifier writing to logger. A nil logger discards output.
func New(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		logger: logger,
		seen:   make(map[uint64]struct{}),
	}
}

// WarnOnce logs msg with fields at warn level unless the same msg was already
// emitted by n. Fields do not take part in deduplication.
// It reports whether the message was emitted.
func (n *Notifier) WarnOnce(msg string, fields ...zap.Field) bool {
	key := xxhash.Sum64String(msg)

	n.mu.Lock()
	if _, ok := n.seen[key]; ok {
		n.mu.Unlock()
		return false
	}
	n.seen[key] = struct{}{}
	n.mu.Unlock()

	n.logger.Warn(msg, fields...)
	return true
}

var (
	defaultOnce     sync.Once
	defaultNotifier *Notifier
)

// Default returns the process-wide Notifier. It logs through a production zap
// logger, or discards output if one cannot be built.
func Default() *Notifier {
	defaultOnce.Do(func() {
		logger, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
		defaultNotifier = New(logger)
	})
	return defaultNotifier
}

// WarnOnce emits msg through the process-wide Notifier.
func WarnOnce(msg string, fields ...zap.Field) bool {
	return Default().WarnOnce(msg, fields...)
}
