package annotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Store reads and writes annotation files in a data directory.
// It is safe for concurrent use within one process.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of a file in the data directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// LoadIgnored returns the ignored commits; a missing file yields an empty list.
func (s *Store) LoadIgnored() ([]IgnoredCommit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadIgnored()
}

func (s *Store) loadIgnored() ([]IgnoredCommit, error) {
	data, err := s.read(IgnoredFile)
	if err != nil {
		return nil, err
	}
	return DecodeIgnored(data)
}

// SaveIgnored replaces the ignored commit list.
func (s *Store) SaveIgnored(list []IgnoredCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveIgnored(list)
}

func (s *Store) saveIgnored(list []IgnoredCommit) error {
	clean := make([]IgnoredCommit, 0, len(list))
	for _, ic := range list {
		ic.Hash = strings.TrimSpace(ic.Hash)
		if ic.Hash == "" {
			continue
		}
		clean = append(clean, ic)
	}
	return s.write(IgnoredFile, map[string]any{IgnoredKey: clean})
}

// Ignore adds or replaces the ignore entry for hash.
func (s *Store) Ignore(hash, reason string) (IgnoredCommit, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return IgnoredCommit{}, fmt.Errorf("commit hash is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadIgnored()
	if err != nil {
		return IgnoredCommit{}, err
	}
	entry := IgnoredCommit{Hash: hash, Reason: strings.TrimSpace(reason), Timestamp: s.now()}

	replaced := false
	for i := range list {
		if list[i].Hash == hash {
			list[i] = entry
			replaced = true
		}
	}
	if !replaced {
		list = append(list, entry)
	}
	return entry, s.saveIgnored(list)
}

// Unignore removes hash from the ignore list and reports whether it was present.
func (s *Store) Unignore(hash string) (bool, error) {
	hash = strings.TrimSpace(hash)
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadIgnored()
	if err != nil {
		return false, err
	}
	kept := list[:0]
	for _, ic := range list {
		if ic.Hash != hash {
			kept = append(kept, ic)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	return true, s.saveIgnored(kept)
}

// LoadRemarks returns the stored remarks; a missing file yields an empty list.
func (s *Store) LoadRemarks() ([]Remark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRemarks()
}

func (s *Store) loadRemarks() ([]Remark, error) {
	data, err := s.read(RemarksFile)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[Remark](data, RemarksKey)
	if err != nil {
		return nil, err
	}
	return cleanRemarks(list), nil
}

// SaveRemarks replaces the remark list, dropping blank hashes, and returns what was written.
func (s *Store) SaveRemarks(list []Remark) ([]Remark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveRemarks(list)
}

func (s *Store) saveRemarks(list []Remark) ([]Remark, error) {
	clean := cleanRemarks(list)
	if err := s.write(RemarksFile, map[string]any{RemarksKey: clean}); err != nil {
		return nil, err
	}
	return clean, nil
}

// SetRemark sets the remark for hash. Blank content removes it.
func (s *Store) SetRemark(hash, content string) error {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return fmt.Errorf("commit hash is required")
	}
	if strings.TrimSpace(content) == "" {
		_, err := s.RemoveRemark(hash)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadRemarks()
	if err != nil {
		return err
	}
	entry := Remark{Hash: hash, Content: content, Timestamp: s.now()}

	replaced := false
	for i := range list {
		if list[i].Hash == hash {
			list[i] = entry
			replaced = true
		}
	}
	if !replaced {
		list = append(list, entry)
	}
	_, err = s.saveRemarks(list)
	return err
}

// RemoveRemark deletes the remark for hash and reports whether it existed.
func (s *Store) RemoveRemark(hash string) (bool, error) {
	hash = strings.TrimSpace(hash)
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadRemarks()
	if err != nil {
		return false, err
	}
	kept := list[:0]
	for _, r := range list {
		if r.Hash != hash {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	_, err = s.saveRemarks(kept)
	return true, err
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// write encodes v and replaces the file atomically via a temp file and rename.
func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
