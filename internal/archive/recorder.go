package archive

import (
	"context"
	"sync"
	"time"

	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/powerlog"
	"go.uber.org/zap"
)

const (
	queueSize   = 16
	sinkTimeout = 10 * time.Second
)

// Sink stores completed match records elsewhere (a database, for instance).
type Sink interface {
	SaveMatch(ctx context.Context, rec *MatchRecord) error
}

// Recorder snapshots the store when a game completes and hands the record to
// a background writer, so the parsing goroutine never waits on I/O.
type Recorder struct {
	logger *zap.Logger
	game   *state.Game
	dir    string
	sinks  []Sink

	queue chan *MatchRecord
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
	saved  []string
}

// NewRecorder creates a recorder writing archive files to dir (empty to skip
// files) and to each sink.
func NewRecorder(game *state.Game, dir string, logger *zap.Logger, sinks ...Sink) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		logger: logger.Named("archive"),
		game:   game,
		dir:    dir,
		sinks:  sinks,
		queue:  make(chan *MatchRecord, queueSize),
	}
}

// Attach subscribes the recorder to GAME_COMPLETE events and returns the handle.
func (r *Recorder) Attach(bus *powerlog.EventBus) int {
	return bus.SubscribeTyped(powerlog.EventGameComplete, r.onComplete)
}

func (r *Recorder) onComplete(e powerlog.Event) {
	rec, err := NewMatchRecord(e.MatchID, r.game)
	if err != nil {
		r.logger.Error("failed to snapshot match", zap.String("match_id", e.MatchID), zap.Error(err))
		return
	}
	r.Enqueue(rec)
}

// Enqueue queues rec for writing. It drops the record when the queue is full
// or the recorder is closed.
func (r *Recorder) Enqueue(rec *MatchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Warn("recorder closed, dropping match", zap.String("match_id", rec.MatchID))
		return
	}
	select {
	case r.queue <- rec:
	default:
		r.logger.Warn("archive queue full, dropping match", zap.String("match_id", rec.MatchID))
	}
}

// Start runs the background writer. Records still queued when ctx ends are
// written before the writer exits; sink calls then use a fresh timeout.
func (r *Recorder) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for rec := range r.queue {
			r.write(ctx, rec)
		}
	}()
}

// Close stops accepting records and waits for queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// Saved returns the archive paths written so far.
func (r *Recorder) Saved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saved...)
}

func (r *Recorder) write(ctx context.Context, rec *MatchRecord) {
	if r.dir != "" {
		path, err := Save(r.dir, rec)
		if err != nil {
			r.logger.Error("failed to archive match", zap.String("match_id", rec.MatchID), zap.Error(err))
		} else {
			r.mu.Lock()
			r.saved = append(r.saved, path)
			r.mu.Unlock()
			r.logger.Info("archived match",
				zap.String("match_id", rec.MatchID),
				zap.String("path", path),
				zap.Int("local_played", len(rec.LocalPlayed)),
				zap.Int("opponent_played", len(rec.OpponentPlayed)),
			)
		}
	}

	for _, sink := range r.sinks {
		sinkCtx := ctx
		if ctx.Err() != nil {
			sinkCtx = context.Background()
		}
		sinkCtx, cancel := context.WithTimeout(sinkCtx, sinkTimeout)
		if err := sink.SaveMatch(sinkCtx, rec); err != nil {
			r.logger.Error("failed to store match", zap.String("match_id", rec.MatchID), zap.Error(err))
		}
		cancel()
	}
}
