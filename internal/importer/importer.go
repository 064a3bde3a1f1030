package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/liftcoach/internal/ingest/alpha"
	"github.com/claude/liftcoach/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsParsed int
	SetsInserted   int64
	SetsSkipped    int64
}

// Importer walks a directory of Alpha Progression CSV exports and loads the
// session history into the database. A SQLite state file keyed on path,
// size, and content hash makes repeat runs cheap.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	userID int
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(db *storage.DB, state *StateDB, userID int, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{db: db, state: state, log: log, userID: userID, dryRun: dryRun}
}

// Import processes all .csv files under dir, oldest filename first.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, dir, name); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("import failed", "file", name, "error", err)
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, dir, name string) error {
	path := filepath.Join(dir, name)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", name, err)
	}

	done, err := imp.state.IsImported(name, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state for %s: %w", name, err)
	}
	if done {
		imp.stats.FilesSkipped++
		imp.log.Debug("already imported", "file", name)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	sessions, err := alpha.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	imp.stats.SessionsParsed += len(sessions)

	if imp.dryRun {
		imp.stats.FilesProcessed++
		imp.log.Info("dry run: would import", "file", name, "sessions", len(sessions))
		return nil
	}

	for _, s := range sessions {
		if err := imp.db.DeleteSessionSets(ctx, s.Date, imp.userID); err != nil {
			return fmt.Errorf("clearing session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		rows := alpha.SessionRows(s, imp.userID)
		inserted, err := imp.db.InsertSessionSets(ctx, rows)
		if err != nil {
			return fmt.Errorf("inserting session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		imp.stats.SetsInserted += inserted
		imp.stats.SetsSkipped += int64(len(rows)) - inserted
	}

	if err := imp.state.MarkImported(name, info.Size(), hash); err != nil {
		return fmt.Errorf("marking %s imported: %w", name, err)
	}
	imp.stats.FilesProcessed++
	imp.log.Info("imported", "file", name, "sessions", len(sessions))
	return nil
}
