package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single review record.
const maxLineSize = 4 * 1024 * 1024

type reviewRecord struct {
	Text  string  `json:"text"`
	Stars float64 `json:"stars"`
}

// JSONLSource reads reviews from a JSON-lines file.
type JSONLSource struct {
	path string
}

// NewJSONLSource creates a source reading from path. The file is opened
// on every ReviewData call.
func NewJSONLSource(path string) *JSONLSource {
	return &JSONLSource{path: path}
}

// ReviewData tokenizes the records with index in [start, end).
// Blank lines are not records.
func (s *JSONLSource) ReviewData(start, end int) ([][]string, []float64, error) {
	if err := checkRange(start, end); err != nil {
		return nil, nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus %s: %w", s.path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var sentences [][]string
	var ratings []float64
	index := 0
	line := 0
	for index < end && scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		if index < start {
			index++
			continue
		}

		var rec reviewRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, nil, fmt.Errorf("corpus %s line %d: %w", s.path, line, err)
		}
		sentences = append(sentences, Tokenize(rec.Text))
		ratings = append(ratings, rec.Stars)
		index++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read corpus %s: %w", s.path, err)
	}

	log.Debugf("Read %d reviews [%d, %d) from %s", len(sentences), start, end, s.path)
	return sentences, ratings, nil
}
