// Package ledger stores RMK entries as one CSV file per calendar month under
// <repo>/ledger/YYYY/MM/entries.csv. Files are append-only.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rmk-dev/rmk/internal/id"
	"github.com/rmk-dev/rmk/internal/model"
)

const (
	ledgerDir = "ledger"
	fileName  = "entries.csv"

	// readConcurrency bounds how many month files are read at once.
	readConcurrency = 8
)

// Service reads and appends ledger entries.
type Service struct {
	root   string
	logger *slog.Logger
}

// NewService creates a ledger Service for the project at repoRoot.
func NewService(repoRoot string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		root:   filepath.Join(repoRoot, ledgerDir),
		logger: logger.With("component", "ledger"),
	}
}

// AddParams holds the fields of a new entry. The ID is assigned by the ledger.
type AddParams struct {
	Date        model.Date
	Category    string
	Name        string
	Description string
	Amount      decimal.Decimal
}

// Add validates and appends one entry to its month file. Returns the entry ID.
func (s *Service) Add(params AddParams) (string, error) {
	ids, err := s.AddAll([]AddParams{params})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddAll appends entries that may span several months. Every affected month
// is validated before anything is written; on a validation failure no file
// is touched. Returned IDs are in input order.
func (s *Service) AddAll(params []AddParams) ([]string, error) {
	type batch struct {
		entries []model.Entry
		added   []model.Entry
	}

	batches := make(map[model.YearMonth]*batch)
	var order []model.YearMonth
	ids := make([]string, len(params))

	for i, p := range params {
		ym := p.Date.YearMonth()
		b, ok := batches[ym]
		if !ok {
			// New entries are numbered after what is already on disk.
			existing, err := s.ReadMonth(ym)
			if err != nil {
				return nil, err
			}
			b = &batch{entries: existing}
			batches[ym] = b
			order = append(order, ym)
		}

		entryIDs := make([]string, len(b.entries))
		for j, e := range b.entries {
			entryIDs[j] = e.ID
		}
		e := model.Entry{
			ID:          id.FormatEntryID(ym, id.NextSeq(entryIDs)),
			Date:        p.Date,
			Category:    p.Category,
			Name:        p.Name,
			Description: p.Description,
			Amount:      p.Amount,
		}
		b.entries = append(b.entries, e)
		b.added = append(b.added, e)
		ids[i] = e.ID
	}

	var msgs []string
	for _, ym := range order {
		for _, ve := range ValidateEntries(batches[ym].entries, ym) {
			msgs = append(msgs, ve.Error())
		}
	}
	if len(msgs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	for _, ym := range order {
		added := batches[ym].added
		if err := s.appendMonth(ym, added); err != nil {
			return nil, err
		}
		s.logger.Debug("entries appended", "month", ym.String(), "count", len(added))
	}
	return ids, nil
}

func (s *Service) appendMonth(ym model.YearMonth, entries []model.Entry) error {
	path := s.monthPath(ym)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendEntries(f, entries); err != nil {
		return fmt.Errorf("appending entries: %w", err)
	}
	return nil
}

// ReadMonth reads all entries of one month. A missing file is an empty month.
func (s *Service) ReadMonth(ym model.YearMonth) ([]model.Entry, error) {
	path := s.monthPath(ym)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return entries, nil
}

// Months lists the months that have a ledger file, oldest first.
func (s *Service) Months() ([]model.YearMonth, error) {
	years, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger dir: %w", err)
	}

	var months []model.YearMonth
	for _, yd := range years {
		year, ok := parseDirNumber(yd, 4)
		if !ok {
			continue
		}
		monthDirs, err := os.ReadDir(filepath.Join(s.root, yd.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading ledger dir %s: %w", yd.Name(), err)
		}
		for _, md := range monthDirs {
			month, ok := parseDirNumber(md, 2)
			if !ok || month < 1 || month > 12 {
				continue
			}
			ym := model.YearMonth{Year: year, Month: time.Month(month)}
			if _, err := os.Stat(s.monthPath(ym)); err == nil {
				months = append(months, ym)
			}
		}
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months, nil
}

// ReadAll reads every month on disk.
func (s *Service) ReadAll(ctx context.Context) ([]model.Entry, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}
	return s.readMonths(ctx, months)
}

// ReadRange reads the months from..to inclusive that exist on disk.
func (s *Service) ReadRange(ctx context.Context, from, to model.YearMonth) ([]model.Entry, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}

	var inRange []model.YearMonth
	for _, ym := range months {
		if !ym.Before(from) && !to.Before(ym) {
			inRange = append(inRange, ym)
		}
	}
	return s.readMonths(ctx, inRange)
}

// readMonths reads the given month files concurrently and concatenates
// their entries in the order of months.
func (s *Service) readMonths(ctx context.Context, months []model.YearMonth) ([]model.Entry, error) {
	results := make([][]model.Entry, len(months))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, ym := range months {
		i, ym := i, ym
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := s.ReadMonth(ym)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Entry
	for _, r := range results {
		all = append(all, r...)
	}
	s.logger.Debug("ledger read", "months", len(months), "entries", len(all))
	return all, nil
}

func (s *Service) monthPath(ym model.YearMonth) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", ym.Year), fmt.Sprintf("%02d", int(ym.Month)), fileName)
}

func parseDirNumber(e fs.DirEntry, width int) (int, bool) {
	if !e.IsDir() || len(e.Name()) != width {
		return 0, false
	}
	n, err := strconv.Atoi(e.Name())
	if err != nil {
		return 0, false
	}
	return n, true
}
