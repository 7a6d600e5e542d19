// Package output writes the place dataset to disk.
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pilgrimage-cli/internal/model"
)

// EncodeJSON renders places as a two-space indented JSON array with
// non-ASCII and HTML characters left unescaped. A nil slice encodes as [].
func EncodeJSON(places []model.Place) ([]byte, error) {
	if places == nil {
		places = []model.Place{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(places); err != nil {
		return nil, eris.Wrap(err, "output: encode json")
	}
	return buf.Bytes(), nil
}

// WriteJSON writes places to path, creating parent directories and
// replacing any existing file.
func WriteJSON(path string, places []model.Place) error {
	data, err := EncodeJSON(places)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// writeFile creates the parent directory and overwrites path. The data is
// staged in a sibling temp file so a failed write leaves the old file intact.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "output: create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrap(err, "output: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "output: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "output: close temp file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return eris.Wrap(err, "output: chmod temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "output: replace %s", path)
	}
	return nil
}
