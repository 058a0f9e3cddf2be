package spreads

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
)

//go:embed data/spreads.json
var spreadFS embed.FS

// Source loads spread layouts from a JSON file. Spread definitions are
// configuration, not code: the embedded table is the default, and an
// explicit path overrides it.
type Source struct {
	path string

	once    sync.Once
	spreads []domain.Spread
	byID    map[string]domain.Spread
	err     error
}

// NewSource builds a source reading path, or the embedded defaults
// when path is empty.
func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) init() {
	raw, err := s.read()
	if err != nil {
		s.err = err
		return
	}

	var spreads []domain.Spread
	if err := json.Unmarshal(raw, &spreads); err != nil {
		s.err = fmt.Errorf("parse spread config: %w", err)
		return
	}

	byID := make(map[string]domain.Spread, len(spreads))
	for _, sp := range spreads {
		if err := sp.Validate(); err != nil {
			s.err = fmt.Errorf("spread config: %w", err)
			return
		}
		if _, dup := byID[sp.ID]; dup {
			s.err = fmt.Errorf("spread config: duplicate id %q", sp.ID)
			return
		}
		byID[sp.ID] = sp
	}

	s.spreads = spreads
	s.byID = byID
}

func (s *Source) read() ([]byte, error) {
	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read spread config %s: %w", s.path, err)
		}
		return raw, nil
	}
	raw, err := spreadFS.ReadFile("data/spreads.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded spread config: %w", err)
	}
	return raw, nil
}

func (s *Source) Spreads(_ context.Context) ([]domain.Spread, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return nil, s.err
	}
	return s.spreads, nil
}

func (s *Source) Spread(_ context.Context, id string) (domain.Spread, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Spread{}, s.err
	}
	sp, ok := s.byID[id]
	if !ok {
		return domain.Spread{}, domain.ErrSpreadNotFound
	}
	return sp, nil
}
