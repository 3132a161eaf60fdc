// Package dataset loads paired human and AI responses for evaluation runs.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ahrav/go-mimic/internal/domain"
)

// requiredColumns must all be present in the CSV header. A missing column
// fails the whole load; partial datasets produce misleading evaluations.
var requiredColumns = []string{
	"id", "person_id", "question_category", "question", "human_answers", "ai_answers",
}

// CSVLoader reads response pairs from a CSV file with a header row.
type CSVLoader struct {
	path string
}

// NewCSVLoader builds a loader for the file at path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// Load reads and validates every row, preserving file order. Each pair is
// validated for required fields before it is accepted.
func (l *CSVLoader) Load(ctx context.Context) ([]domain.ResponsePair, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: column %q", domain.ErrMissingField, name)
		}
	}

	var pairs []domain.ResponsePair
	row := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row++

		id, err := strconv.Atoi(record[columns["id"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse id %q: %w", row, record[columns["id"]], err)
		}

		pair := domain.ResponsePair{
			ID:          id,
			PersonID:    record[columns["person_id"]],
			Category:    record[columns["question_category"]],
			Question:    record[columns["question"]],
			HumanAnswer: record[columns["human_answers"]],
			AIAnswer:    record[columns["ai_answers"]],
		}
		if err := pair.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		pairs = append(pairs, pair)
	}

	if len(pairs) == 0 {
		return nil, domain.ErrNoPairs
	}
	return pairs, nil
}
