package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/service/pipeline"
)

// ErrShuttingDown is returned by Submit once Shutdown has been called.
var ErrShuttingDown = errors.New("manager is shutting down")

const EventQueued = "queued"

// Processor runs one video job.
type Processor interface {
	Process(ctx context.Context, video *model.Video, notify func(pipeline.Event)) error
}

// Notifier receives serialized progress events.
type Notifier interface {
	Broadcast(message []byte)
}

// Manager runs video jobs in the background, one goroutine per video.
type Manager struct {
	processor Processor
	notifier  Notifier
	logger    *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running map[int64]bool
	closed  bool
	wg      sync.WaitGroup
}

func NewManager(processor Processor, notifier Notifier, logger *logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	manager := &Manager{
		processor: processor,
		notifier:  notifier,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		running:   make(map[int64]bool),
	}
	manager.logger.Info("🎬 Manager started")
	return manager
}

// Submit starts processing video in the background. A copy of video is used
// so the caller may keep its value.
func (m *Manager) Submit(video model.Video) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrShuttingDown
	}
	m.running[video.ID] = true
	m.wg.Add(1)
	m.mu.Unlock()

	m.publish(pipeline.Event{VideoID: video.ID, Status: EventQueued})
	m.logger.Info("📹 Video %d queued for processing", video.ID)

	go func() {
		defer m.wg.Done()
		defer func() {
			m.mu.Lock()
			delete(m.running, video.ID)
			m.mu.Unlock()
		}()

		if err := m.processor.Process(m.ctx, &video, m.publish); err != nil {
			m.logger.Warning("Video %d finished with error: %v", video.ID, err)
		}
	}()
	return nil
}

// Running returns how many videos are being processed.
func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.running)
}

// IsRunning reports whether video id is being processed.
func (m *Manager) IsRunning(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running[id]
}

func (m *Manager) publish(event pipeline.Event) {
	if m.notifier == nil {
		return
	}
	message, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("Failed to encode progress event: %v", err)
		return
	}
	m.notifier.Broadcast(message)
}

// Shutdown stops accepting jobs, cancels running ones and waits for them
// until ctx expires.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("🛑 All video jobs stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
