// Package yamlfile stores names and selections as two YAML documents in a
// directory. It suits single-user setups and hand-edited catalogues.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.yaml.in/yaml/v3"

	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/logging"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/names"
	"github.com/guitarbeat/Naming-Nosferatu-sub008/internal/store"
)

const (
	namesFile      = "names.yaml"
	selectionsFile = "selections.yaml"
)

var _ store.Admin = (*Store)(nil)

// Store reads and writes <dir>/names.yaml and <dir>/selections.yaml.
type Store struct {
	dir    string
	logger *log.Logger
	mu     sync.Mutex
}

type nameDoc struct {
	ID              string    `yaml:"id"`
	Name            string    `yaml:"name"`
	Description     string    `yaml:"description,omitempty"`
	Category        string    `yaml:"category,omitempty"`
	Score           float64   `yaml:"score,omitempty"`
	PopularityScore float64   `yaml:"popularity_score,omitempty"`
	Hidden          bool      `yaml:"hidden,omitempty"`
	SubmittedBy     string    `yaml:"submitted_by,omitempty"`
	CreatedAt       time.Time `yaml:"created_at,omitempty"`
}

type selectionDoc struct {
	Batch   string    `yaml:"batch"`
	SavedAt time.Time `yaml:"saved_at"`
	IDs     []string  `yaml:"ids"`
}

// New returns a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir, logger: logging.For("store")}
}

// Close is a no-op.
func (s *Store) Close(ctx context.Context) error { return nil }

// EnsureSchema creates the directory.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	return nil
}

// FetchItems decodes names.yaml. A missing file is an empty catalogue; a
// document that is not a sequence is store.ErrInvalidShape.
func (s *Store) FetchItems(ctx context.Context, mode names.Mode, user string) ([]names.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readNames()
	if err != nil {
		return nil, err
	}

	var saved map[names.ID]struct{}
	if mode == names.ModeProfile {
		sel, err := s.readSelections()
		if err != nil {
			return nil, err
		}
		saved = make(map[names.ID]struct{})
		for _, id := range sel[user].IDs {
			saved[names.ID(id)] = struct{}{}
		}
	}

	items := make([]names.Item, 0, len(docs))
	for _, d := range docs {
		it := d.item()
		if saved != nil {
			_, ok := saved[it.ID]
			it.Extra = map[string]any{store.ExtraSelected: ok}
		}
		items = append(items, it)
	}
	return items, nil
}

// SaveSelection replaces the user's entry in selections.yaml.
func (s *Store) SaveSelection(ctx context.Context, user string, items []names.Item, batchID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.readSelections()
	if err != nil {
		return err
	}
	ids := []string{}
	for _, it := range store.Dedupe(items) {
		ids = append(ids, string(it.ID))
	}
	sel[user] = selectionDoc{Batch: batchID, SavedAt: time.Now().UTC(), IDs: ids}

	if err := s.write(selectionsFile, sel); err != nil {
		return err
	}
	s.logger.Debug("selection saved", "user", user, "batch", batchID, "count", len(ids))
	return nil
}

// LoadSelection returns the ids in the user's saved selection.
func (s *Store) LoadSelection(ctx context.Context, user string) ([]names.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.readSelections()
	if err != nil {
		return nil, err
	}
	var ids []names.ID
	for _, id := range sel[user].IDs {
		ids = append(ids, names.ID(id))
	}
	return ids, nil
}

// UpsertItems replaces names by id and appends new ones.
func (s *Store) UpsertItems(ctx context.Context, items []names.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readNames()
	if err != nil {
		return err
	}
	pos := make(map[string]int, len(docs))
	for i, d := range docs {
		pos[d.ID] = i
	}
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("upserting %q: empty id", it.Name)
		}
		d := docOf(it)
		if i, ok := pos[d.ID]; ok {
			docs[i] = d
			continue
		}
		pos[d.ID] = len(docs)
		docs = append(docs, d)
	}
	return s.write(namesFile, docs)
}

// SetHidden changes a name's visibility.
func (s *Store) SetHidden(ctx context.Context, id names.ID, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readNames()
	if err != nil {
		return err
	}
	for i := range docs {
		if docs[i].ID == string(id) {
			docs[i].Hidden = hidden
			return s.write(namesFile, docs)
		}
	}
	return fmt.Errorf("name %s: %w", id, store.ErrNotFound)
}

func (s *Store) readNames() ([]nameDoc, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, namesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return []nameDoc{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading names: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing names: %w", err)
	}
	if root.Kind == 0 {
		return []nameDoc{}, nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: %w", namesFile, store.ErrInvalidShape)
	}

	var docs []nameDoc
	if err := root.Content[0].Decode(&docs); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", namesFile, store.ErrInvalidShape, err)
	}
	if docs == nil {
		docs = []nameDoc{}
	}
	return docs, nil
}

func (s *Store) readSelections() (map[string]selectionDoc, error) {
	sel := map[string]selectionDoc{}
	data, err := os.ReadFile(filepath.Join(s.dir, selectionsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return sel, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading selections: %w", err)
	}
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("parsing selections: %w", err)
	}
	if sel == nil {
		sel = map[string]selectionDoc{}
	}
	return sel, nil
}

// write replaces name atomically via a temp file in the same directory.
func (s *Store) write(name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

func (d nameDoc) item() names.Item {
	return names.Item{
		ID:              names.ID(d.ID),
		Name:            d.Name,
		Description:     d.Description,
		Category:        d.Category,
		Score:           d.Score,
		PopularityScore: d.PopularityScore,
		Hidden:          d.Hidden,
		SubmittedBy:     d.SubmittedBy,
		CreatedAt:       d.CreatedAt,
	}
}

func docOf(it names.Item) nameDoc {
	return nameDoc{
		ID:              string(it.ID),
		Name:            it.Name,
		Description:     it.Description,
		Category:        it.Category,
		Score:           it.Score,
		PopularityScore: it.PopularityScore,
		Hidden:          it.Hidden,
		SubmittedBy:     it.SubmittedBy,
		CreatedAt:       it.CreatedAt,
	}
}
