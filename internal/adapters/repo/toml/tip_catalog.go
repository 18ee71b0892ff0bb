package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/bnema/studybuddy/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	tipsFileMode    = 0o600
	tipsDirMode     = 0o700
	tempFilePattern = ".tips-*.toml.tmp"
)

// TipCatalog stores study tips in a versioned TOML file. Until the file
// exists the built-in tips are served; the first Add seeds the file with
// them so user tips extend the defaults instead of replacing them.
type TipCatalog struct {
	path string
	mu   *sync.RWMutex
	now  func() time.Time
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.TipCatalog = (*TipCatalog)(nil)

func NewTipCatalog(path string) (*TipCatalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("tips path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve tips path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	return &TipCatalog{path: absPath, mu: lockForPath(absPath), now: time.Now}, nil
}

func (c *TipCatalog) Path() string {
	return c.path
}

func (c *TipCatalog) List(ctx context.Context) ([]domain.Tip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	file, found, err := c.readSchema()
	if err != nil {
		return nil, err
	}
	if !found {
		return slices.Clone(domain.DefaultStudyTips), nil
	}

	tips := make([]domain.Tip, 0, len(file.Tips))
	for _, entry := range file.Tips {
		if tip, err := domain.NewTip(entry.Text); err == nil {
			tips = append(tips, tip)
		}
	}

	return tips, nil
}

func (c *TipCatalog) Add(ctx context.Context, tip domain.Tip) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tip, err := domain.NewTip(tip.Text)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	file, found, err := c.readSchema()
	if err != nil {
		return err
	}
	if !found {
		for _, seed := range domain.DefaultStudyTips {
			file.Tips = append(file.Tips, tipSchema{Text: seed.Text})
		}
	}

	for _, entry := range file.Tips {
		if domain.SameTip(domain.Tip{Text: entry.Text}, tip) {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateTip, tip.Text)
		}
	}
	file.Tips = append(file.Tips, tipSchema{Text: tip.Text, AddedAt: c.now().UTC().Format(time.RFC3339)})

	if err := ctx.Err(); err != nil {
		return err
	}

	return c.writeSchema(file)
}

func (c *TipCatalog) readSchema() (tipsFileSchema, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tipsFileSchema{}, false, nil
		}
		return tipsFileSchema{}, false, fmt.Errorf("read tips file: %w", err)
	}

	var file tipsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return tipsFileSchema{}, false, fmt.Errorf("decode tips file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return tipsFileSchema{}, false, err
	}
	file.applyDefaults()

	return file, true, nil
}

func (c *TipCatalog) writeSchema(file tipsFileSchema) error {
	file.applyDefaults()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, tipsDirMode); err != nil {
		return fmt.Errorf("create tips directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode tips file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp tips file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp tips file: %w", err)
	}
	if err := tempFile.Chmod(tipsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp tips file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp tips file: %w", err)
	}

	if err := os.Rename(tempName, c.path); err != nil {
		return fmt.Errorf("replace tips file: %w", err)
	}
	cleanup = false

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
