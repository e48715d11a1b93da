package diagram

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

const (
	commentPrefix = "#"
	fieldsPair    = 2
	fieldsDimPair = 3
)

// parseText reads one pair per line: "birth death" or "dim birth death",
// separated by whitespace or commas. Text after '#' is ignored.
func parseText(data []byte, dimension int) ([]landscape.Pair, error) {
	var pairs []landscape.Pair

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0

	for sc.Scan() {
		line++

		text, _, _ := strings.Cut(sc.Text(), commentPrefix)

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) == 0 {
			continue
		}

		pair, dim, err := parseFields(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}

		if keep(dimension, dim) {
			pairs = append(pairs, pair)
		}
	}

	scanErr := sc.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("scan diagram: %w", scanErr)
	}

	return pairs, nil
}

// parseCSV reads comma separated records with an optional header naming
// "birth", "death" and optionally "dim" or "dimension" columns.
func parseCSV(data []byte, dimension int) ([]landscape.Pair, error) {
	rd := csv.NewReader(bytes.NewReader(data))
	rd.Comment = '#'
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	var (
		pairs  []landscape.Pair
		layout *csvLayout
	)

	for {
		record, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := rd.FieldPos(0)

		if layout == nil {
			layout = detectHeader(record)
			if layout != nil {
				continue
			}

			layout = &csvLayout{dim: -1, birth: 0, death: 1}
			if len(record) == fieldsDimPair {
				layout = &csvLayout{dim: 0, birth: 1, death: 2}
			}
		}

		pair, dim, parseErr := layout.parse(record)
		if parseErr != nil {
			return nil, &ParseError{Line: line, Err: parseErr}
		}

		if keep(dimension, dim) {
			pairs = append(pairs, pair)
		}
	}

	return pairs, nil
}

// csvLayout maps column indexes; dim is -1 when there is no dimension column.
type csvLayout struct {
	dim   int
	birth int
	death int
}

func detectHeader(record []string) *csvLayout {
	layout := csvLayout{dim: -1, birth: -1, death: -1}

	for i, name := range record {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "birth":
			layout.birth = i
		case "death":
			layout.death = i
		case "dim", "dimension":
			layout.dim = i
		}
	}

	if layout.birth < 0 || layout.death < 0 {
		return nil
	}

	return &layout
}

func (l *csvLayout) parse(record []string) (landscape.Pair, int, error) {
	need := max(l.birth, l.death, l.dim) + 1
	if len(record) < need {
		return landscape.Pair{}, 0, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedPair, need, len(record))
	}

	fields := []string{record[l.birth], record[l.death]}
	if l.dim >= 0 {
		fields = []string{record[l.dim], record[l.birth], record[l.death]}
	}

	return parseFields(fields)
}

// parseFields converts two or three textual fields into a pair and its
// dimension (-1 when absent).
func parseFields(fields []string) (landscape.Pair, int, error) {
	dim := -1

	switch len(fields) {
	case fieldsPair:
	case fieldsDimPair:
		d, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return landscape.Pair{}, 0, fmt.Errorf("%w: dimension %q", ErrMalformedPair, fields[0])
		}

		dim = d
		fields = fields[1:]
	default:
		return landscape.Pair{}, 0, fmt.Errorf("%w: want 2 or 3 fields, got %d", ErrMalformedPair, len(fields))
	}

	birth, err := parseCoord(fields[0])
	if err != nil {
		return landscape.Pair{}, 0, err
	}

	death, err := parseCoord(fields[1])
	if err != nil {
		return landscape.Pair{}, 0, err
	}

	return landscape.Pair{Birth: birth, Death: death}, dim, nil
}

// parseCoord accepts decimal numbers and the inf, infinity and nan spellings.
func parseCoord(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q", ErrMalformedPair, s)
	}

	return float32(v), nil
}
