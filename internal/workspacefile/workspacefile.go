// Copyright © 2026 SATVI Lab
// Multi-folder workspace descriptor read/write

package workspacefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Workspace descriptor file names. The legacy CamelCase name is honored
// only when it is the one already present.
const (
	DefaultName = "entire-project.code-workspace"
	LegacyName  = "EntireProject.code-workspace"
)

// folderKey is the top-level key holding the ordered folder list. Every
// other top-level key is preserved untouched across writes.
const folderKey = "folders"

// Folder is one entry of the descriptor's folder list
type Folder struct {
	Path string `json:"path"`
}

// Locate returns the descriptor path to use inside dir: the default name,
// unless only the legacy-named file exists.
func Locate(dir string) string {
	def := filepath.Join(dir, DefaultName)
	legacy := filepath.Join(dir, LegacyName)

	if _, err := os.Stat(def); err == nil {
		return def
	}
	if _, err := os.Stat(legacy); err == nil {
		return legacy
	}
	return def
}

// Read parses a workspace descriptor and returns its ordered folder paths.
// Editor-style descriptors may carry comments and trailing commas, so the
// content is run through a JSONC conversion first.
func Read(path string) ([]string, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	raw, ok := doc[folderKey]
	if !ok {
		return nil, nil
	}

	var folders []Folder
	if err := json.Unmarshal(raw, &folders); err != nil {
		return nil, fmt.Errorf("malformed %s key in %s: %w", folderKey, path, err)
	}

	paths := make([]string, len(folders))
	for i, f := range folders {
		paths[i] = f.Path
	}
	return paths, nil
}

// Write replaces the descriptor's folder list with the given relative paths,
// creating the file if absent and preserving every other top-level key.
func Write(path string, paths []string) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}

	folders := make([]Folder, len(paths))
	for i, p := range paths {
		folders[i] = Folder{Path: p}
	}

	raw, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("failed to encode folder list: %w", err)
	}
	doc[folderKey] = raw

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workspace descriptor: %w", err)
	}
	out = append(out, '\n')

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readDocument loads a descriptor into a key-preserving map. A missing file
// yields a nil map; a present but unparseable file is a configuration error.
func readDocument(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("malformed workspace descriptor %s: %w", path, err)
	}
	return doc, nil
}
