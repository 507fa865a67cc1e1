// Package archive persists a summary of every completed match.
package archive

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/game/tags"
	"github.com/google/uuid"
)

const (
	fileExt       = ".match"
	formatVersion = 1
)

// ErrUnsupportedVersion is returned when loading an archive written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported archive version")

// MatchRecord summarises one completed match.
type MatchRecord struct {
	ID                string
	MatchID           string
	CompletedAt       time.Time
	LocalPlayerNumber int
	LocalResult       string
	OpponentResult    string
	Turns             int
	LocalPlayed       []string
	OpponentPlayed    []string
	JoustParticipants []int
	EntityCount       int
	Checksum          string
}

// NewMatchRecord captures the store's current facts for matchID.
func NewMatchRecord(matchID string, game *state.Game) (*MatchRecord, error) {
	checksum, err := game.Checksum()
	if err != nil {
		return nil, fmt.Errorf("checksum match %s: %w", matchID, err)
	}
	facts := game.Facts()
	rec := &MatchRecord{
		ID:                uuid.NewString(),
		MatchID:           matchID,
		CompletedAt:       time.Now().UTC(),
		LocalPlayerNumber: game.LocalPlayerNumber(),
		LocalPlayed:       facts.LocalPlayed,
		OpponentPlayed:    facts.OpponentPlayed,
		JoustParticipants: facts.JoustParticipants,
		EntityCount:       game.EntityCount(),
		Checksum:          checksum,
	}
	if ge, ok := game.GameEntity(); ok {
		rec.Turns = ge.TagOr(tags.Turn, 0)
	}
	if local, ok := game.LocalPlayerEntity(); ok {
		rec.LocalResult = playState(local)
	}
	if opp, ok := game.OpponentEntity(); ok {
		rec.OpponentResult = playState(opp)
	}
	return rec, nil
}

func playState(e state.Entity) string {
	v, ok := e.Tag(tags.PlayState)
	if !ok {
		return ""
	}
	return tags.FormatValue(tags.PlayState, v)
}

// recordHeader precedes the record in an archive file.
type recordHeader struct {
	Version int
	SavedAt time.Time
}

// FileName returns the archive file name for rec.
func FileName(rec *MatchRecord) string {
	return rec.MatchID + fileExt
}

// Save writes rec to directory as a gzipped gob file and returns its path.
func Save(directory string, rec *MatchRecord) (string, error) {
	if rec.MatchID == "" {
		return "", errors.New("match record without match id")
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(directory, FileName(rec))
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if err := encode(file, rec); err != nil {
		file.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}
	return path, nil
}

func encode(file *os.File, rec *MatchRecord) error {
	gzipWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzipWriter)
	if err := encoder.Encode(&recordHeader{Version: formatVersion, SavedAt: time.Now().UTC()}); err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	if err := encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip: %w", err)
	}
	return nil
}

// Load reads a record written by Save.
func Load(path string) (*MatchRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)
	var header recordHeader
	if err := decoder.Decode(&header); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if header.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}

	var rec MatchRecord
	if err := decoder.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &rec, nil
}

// List returns the archive files in directory, sorted by name.
func List(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		paths = append(paths, filepath.Join(directory, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
