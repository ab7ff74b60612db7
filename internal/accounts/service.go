// Package accounts manages the account dictionary stored in accounts/accounts.csv.
package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rmk-dev/rmk/internal/model"
)

var (
	ErrEmptyName   = errors.New("account name is empty")
	ErrDuplicateID = errors.New("account already exists")
	ErrNotFound    = errors.New("account not found")
)

const (
	accountsDir  = "accounts"
	accountsFile = "accounts.csv"
)

// Service provides in-memory lookup and editing over the account dictionary.
// Changes are kept in memory until Save.
type Service struct {
	accounts []model.Account
	byID     map[int]int // account ID -> index in accounts
}

// NewService creates a Service from a slice of accounts. Later duplicates of
// an ID are dropped.
func NewService(accounts []model.Account) *Service {
	s := &Service{byID: make(map[int]int, len(accounts))}
	for _, a := range accounts {
		if _, dup := s.byID[a.ID]; dup {
			continue
		}
		s.byID[a.ID] = len(s.accounts)
		s.accounts = append(s.accounts, a)
	}
	return s
}

// Path returns the location of accounts.csv inside repoRoot.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, accountsDir, accountsFile)
}

// Load reads accounts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening account dictionary: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading account dictionary: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts ordered by ID.
func (s *Service) All() []model.Account {
	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// Add registers a new account. The name is trimmed and must not be blank.
func (s *Service) Add(acct model.Account) error {
	acct.Name = strings.TrimSpace(acct.Name)
	if acct.Name == "" {
		return ErrEmptyName
	}
	if s.Exists(acct.ID) {
		return fmt.Errorf("%w: %d", ErrDuplicateID, acct.ID)
	}
	s.byID[acct.ID] = len(s.accounts)
	s.accounts = append(s.accounts, acct)
	return nil
}

// SetDescription replaces the description of an existing account.
func (s *Service) SetDescription(id int, description string) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.accounts[i].Description = description
	return nil
}

// Save writes the dictionary to accounts/accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating account dictionary file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.All()); err != nil {
		return fmt.Errorf("writing account dictionary: %w", err)
	}
	return nil
}
