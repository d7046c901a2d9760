// Package jsonstore reads and writes the JSON files the vocabulary tools
// exchange: entry lists, validation reports and word lists.
package jsonstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// ReadEntries decodes an entry list. A single top-level object is read as a
// one-element list.
func ReadEntries(path string) ([]domain.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", path, err)
	}
	return decodeEntries(path, data)
}

func decodeEntries(path string, data []byte) ([]domain.Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &domain.MalformedInputError{Path: path, Reason: "empty file"}
	}

	if trimmed[0] == '{' {
		var e domain.Entry
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &domain.MalformedInputError{Path: path, Reason: err.Error()}
		}
		return []domain.Entry{e}, nil
	}

	var entries []domain.Entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &domain.MalformedInputError{Path: path, Reason: err.Error()}
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

// WriteEntries writes entries as an indented JSON array. The file is
// replaced atomically; on error the previous content is kept.
func WriteEntries(path string, entries []domain.Entry) error {
	if entries == nil {
		entries = []domain.Entry{}
	}
	return writeJSON(path, entries)
}

// WriteReport writes a validation report as an indented JSON array.
func WriteReport(path string, reports []domain.EntryReport) error {
	if reports == nil {
		reports = []domain.EntryReport{}
	}
	return writeJSON(path, reports)
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("jsonstore: encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonstore: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonstore: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonstore: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonstore: replace %s: %w", path, err)
	}
	return nil
}

// ReadWordList loads the words to generate. A .json file must hold an array
// of strings; any other file is read line by line, skipping blank lines and
// lines starting with '#'. Words are trimmed and empty ones dropped.
func ReadWordList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var raw []string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &domain.MalformedInputError{Path: path, Reason: "word list must be a JSON array of strings"}
		}
		words := make([]string, 0, len(raw))
		for _, w := range raw {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		return words, nil
	}

	var words []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("jsonstore: scan %s: %w", path, err)
	}
	return words, nil
}

// ExtractWords returns the trimmed "word" values of an entry file in order.
// Items that are not objects or have no string word are skipped.
func ExtractWords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", path, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &domain.MalformedInputError{Path: path, Reason: "top-level value must be an array"}
	}

	words := make([]string, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		var w string
		if err := json.Unmarshal(obj[domain.FieldWord], &w); err != nil {
			continue
		}
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

// isNotExist reports whether err means the file is absent.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
