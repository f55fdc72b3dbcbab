package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// langsKey is a summary entry of the project metadata export, not a project
const langsKey = "langs"

// openArtifact opens path, transparently decompressing ".gz" files
func openArtifact(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	ferr := g.file.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

func decodeFile(path string, v interface{}) error {
	r, err := openArtifact(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// flexInt accepts JSON numbers and numeric strings
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid count %s", data)
	}
	*n = flexInt(f)
	return nil
}

// orderedKeys decodes the keys of a JSON object in document order
type orderedKeys []string

func (k *orderedKeys) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*k = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
	}
	*k = keys
	return nil
}

// projectInfo is one entry of the project metadata export
type projectInfo struct {
	NumStars   flexInt                    `json:"NumStars"`
	NumForks   flexInt                    `json:"NumForks"`
	NumAuthors flexInt                    `json:"NumAuthors"`
	FemalePct  float64                    `json:"female_pct"`
	FileInfo   map[string]json.RawMessage `json:"FileInfo"`
	Core       orderedKeys                `json:"Core"`
}

// vectorEntry is one key of the embedding export
type vectorEntry struct {
	Key    string    `json:"key"`
	Vector []float32 `json:"vector"`
}

// embeddingExport is the document written by the model export step
type embeddingExport struct {
	Dimension int           `json:"dimension"`
	Anchors   []vectorEntry `json:"anchors"`
	Tokens    []vectorEntry `json:"tokens"`
}

// activityItem is a [path, {"all": n, ...}] pair of the timezone dataset
type activityItem struct {
	Path   string
	Counts map[string]flexInt
}

func (a *activityItem) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("activity entry must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &a.Path); err != nil {
		return fmt.Errorf("activity path: %w", err)
	}
	if err := json.Unmarshal(pair[1], &a.Counts); err != nil {
		return fmt.Errorf("activity counts for %s: %w", a.Path, err)
	}
	return nil
}
