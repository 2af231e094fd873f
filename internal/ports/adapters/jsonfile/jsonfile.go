// Package jsonfile loads a sermon corpus from a JSON or gzip-compressed JSON
// file.
package jsonfile

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/forPelevin/sermonsearch/internal/types"
)

// ErrNoCorpus is returned in strict mode when none of the candidate files
// exist.
var ErrNoCorpus = errors.New("corpus file not found")

type Adapter struct {
	paths  []string
	strict bool
	log    *slog.Logger
}

// New returns a loader that reads the first existing file among paths. In
// strict mode a missing file is an error; otherwise it yields an empty
// corpus.
func New(paths []string, strict bool, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Adapter{paths: paths, strict: strict, log: log}
}

func (a *Adapter) Load(ctx context.Context) ([]types.Document, error) {
	for _, p := range a.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if st.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		docs, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		a.log.Info("corpus loaded", "path", p, "documents", len(docs))
		return docs, nil
	}
	if a.strict {
		return nil, fmt.Errorf("%w: tried %s", ErrNoCorpus, strings.Join(a.paths, ", "))
	}
	a.log.Warn("no corpus file found, serving an empty corpus", "tried", a.paths)
	return nil, nil
}

func ReadFile(path string) ([]types.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	docs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return docs, nil
}

// Decode reads documents from r. Gzip input is detected by its magic bytes.
// The payload is either an array of documents or an object holding one under
// "documents", "sermons" or "items".
func Decode(r io.Reader) ([]types.Document, error) {
	br := bufio.NewReader(r)
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		br = bufio.NewReader(zr)
	}

	b, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, nil
	}

	var raws []json.RawMessage
	switch b[0] {
	case '[':
		err = json.Unmarshal(b, &raws)
	case '{':
		var env map[string]json.RawMessage
		if err = json.Unmarshal(b, &env); err != nil {
			break
		}
		found := false
		for _, k := range []string{"documents", "sermons", "items"} {
			if v, ok := env[k]; ok {
				err, found = json.Unmarshal(v, &raws), true
				break
			}
		}
		if !found {
			err = errors.New(`object has no "documents", "sermons" or "items" array`)
		}
	default:
		err = fmt.Errorf("unexpected leading byte %q", b[0])
	}
	if err != nil {
		return nil, err
	}

	docs := make([]types.Document, 0, len(raws))
	for _, raw := range raws {
		var rd rawDocument
		// Entries that are not objects carry nothing to search.
		if err := json.Unmarshal(raw, &rd); err != nil {
			continue
		}
		docs = append(docs, rd.document())
	}
	return docs, nil
}

type rawDocument struct {
	ID         flexString   `json:"id"`
	VideoID    flexString   `json:"video_id"`
	Title      flexString   `json:"title"`
	Date       flexString   `json:"date"`
	URL        flexString   `json:"url"`
	WordCount  flexInt      `json:"word_count"`
	Transcript flexString   `json:"transcript"`
	Segments   flexSegments `json:"segments"`
	Timestamps flexSegments `json:"timestamps"`
}

type rawSegment struct {
	Time    flexString `json:"time"`
	Seconds flexInt    `json:"seconds"`
	Text    flexString `json:"text"`
}

func (rd rawDocument) document() types.Document {
	d := types.Document{
		ID:         string(rd.ID),
		Title:      strings.TrimSpace(string(rd.Title)),
		Date:       string(rd.Date),
		URL:        strings.TrimSpace(string(rd.URL)),
		WordCount:  int(rd.WordCount),
		Transcript: string(rd.Transcript),
	}
	if d.ID == "" {
		d.ID = string(rd.VideoID)
	}
	segs := rd.Segments
	if len(segs) == 0 {
		segs = rd.Timestamps
	}
	for _, s := range segs {
		d.Segments = append(d.Segments, types.Segment{
			Time:    strings.TrimSpace(string(s.Time)),
			Seconds: int(s.Seconds),
			Text:    strings.TrimSpace(string(s.Text)),
		})
	}
	return d
}

// flexSegments decodes an array of segments, skipping entries that are not
// objects. A non-array value decodes to no segments.
type flexSegments []rawSegment

func (fs *flexSegments) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*fs = nil
		return nil
	}
	out := make([]rawSegment, 0, len(items))
	for _, it := range items {
		var s rawSegment
		if err := json.Unmarshal(it, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	*fs = out
	return nil
}

// flexString accepts strings, numbers and null. Anything else decodes to "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		*s = flexString(t)
	case float64:
		*s = flexString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		*s = ""
	}
	return nil
}

// flexInt accepts numbers, numeric strings and null. Fractions truncate;
// anything else decodes to 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		*n = flexInt(int(t))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = flexInt(int(f))
	default:
		*n = 0
	}
	return nil
}
