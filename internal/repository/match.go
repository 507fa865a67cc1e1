package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/decksage/powerlog/internal/archive"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrMatchNotFound is returned when no row exists for a match id.
var ErrMatchNotFound = errors.New("match not found")

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id                  UUID PRIMARY KEY,
	match_id            TEXT NOT NULL UNIQUE,
	completed_at        TIMESTAMPTZ NOT NULL,
	local_player_number INTEGER NOT NULL,
	local_result        TEXT NOT NULL DEFAULT '',
	opponent_result     TEXT NOT NULL DEFAULT '',
	turns               INTEGER NOT NULL DEFAULT 0,
	local_played        TEXT[] NOT NULL DEFAULT '{}',
	opponent_played     TEXT[] NOT NULL DEFAULT '{}',
	joust_participants  INTEGER[] NOT NULL DEFAULT '{}',
	entity_count        INTEGER NOT NULL DEFAULT 0,
	checksum            TEXT NOT NULL
)`

const upsertMatch = `
INSERT INTO matches (
	id, match_id, completed_at, local_player_number, local_result, opponent_result,
	turns, local_played, opponent_played, joust_participants, entity_count, checksum
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (match_id) DO UPDATE SET
	completed_at = EXCLUDED.completed_at,
	local_player_number = EXCLUDED.local_player_number,
	local_result = EXCLUDED.local_result,
	opponent_result = EXCLUDED.opponent_result,
	turns = EXCLUDED.turns,
	local_played = EXCLUDED.local_played,
	opponent_played = EXCLUDED.opponent_played,
	joust_participants = EXCLUDED.joust_participants,
	entity_count = EXCLUDED.entity_count,
	checksum = EXCLUDED.checksum`

// MatchRepository reads and writes match records. It satisfies archive.Sink.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a repository on db.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// EnsureSchema creates the matches table when missing.
func (r *MatchRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create matches table: %w", err)
	}
	return nil
}

// SaveMatch inserts rec, replacing an earlier row for the same match id.
func (r *MatchRepository) SaveMatch(ctx context.Context, rec *archive.MatchRecord) error {
	_, err := r.db.pool.Exec(ctx, upsertMatch, matchArgs(rec)...)
	if err != nil {
		return fmt.Errorf("save match %s: %w", rec.MatchID, err)
	}
	r.db.logger.Debug("stored match", zap.String("match_id", rec.MatchID))
	return nil
}

// SaveMatches upserts records in one transaction and returns how many were written.
func (r *MatchRepository) SaveMatches(ctx context.Context, recs []*archive.MatchRecord) (int, error) {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(upsertMatch, matchArgs(rec)...)
	}
	results := tx.SendBatch(ctx, batch)
	for _, rec := range recs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("save match %s: %w", rec.MatchID, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(recs), nil
}

// GetMatch loads the record for matchID.
func (r *MatchRepository) GetMatch(ctx context.Context, matchID string) (*archive.MatchRecord, error) {
	var rec archive.MatchRecord
	var joust []int32
	err := r.db.pool.QueryRow(ctx, `
		SELECT id::text, match_id, completed_at, local_player_number, local_result, opponent_result,
		       turns, local_played, opponent_played, joust_participants, entity_count, checksum
		FROM matches WHERE match_id = $1`, matchID,
	).Scan(
		&rec.ID, &rec.MatchID, &rec.CompletedAt, &rec.LocalPlayerNumber, &rec.LocalResult, &rec.OpponentResult,
		&rec.Turns, &rec.LocalPlayed, &rec.OpponentPlayed, &joust, &rec.EntityCount, &rec.Checksum,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", matchID, err)
	}
	for _, id := range joust {
		rec.JoustParticipants = append(rec.JoustParticipants, int(id))
	}
	return &rec, nil
}

// CountMatches returns the number of stored matches.
func (r *MatchRepository) CountMatches(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM matches").Scan(&n); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

func matchArgs(rec *archive.MatchRecord) []any {
	joust := make([]int32, len(rec.JoustParticipants))
	for i, id := range rec.JoustParticipants {
		joust[i] = int32(id)
	}
	localPlayed := rec.LocalPlayed
	if localPlayed == nil {
		localPlayed = []string{}
	}
	opponentPlayed := rec.OpponentPlayed
	if opponentPlayed == nil {
		opponentPlayed = []string{}
	}
	return []any{
		rec.ID, rec.MatchID, rec.CompletedAt, rec.LocalPlayerNumber, rec.LocalResult, rec.OpponentResult,
		rec.Turns, localPlayed, opponentPlayed, joust, rec.EntityCount, rec.Checksum,
	}
}
