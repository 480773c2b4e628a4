package corpus

import (
	"bufio"
	stderrors "errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/kbukum/speechkit/errors"
)

const maxLineBytes = 1 << 20

// line is one non-empty record of an index file.
type line struct {
	no     int
	fields []string
	text   string
}

// readLines returns the non-empty lines of name. ok is false when the file does not exist.
func readLines(fsys fs.FS, name string) (lines []line, ok bool, err error) {
	f, err := fsys.Open(name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Internal(err).WithDetail("file", name)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	no := 0
	for sc.Scan() {
		no++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		lines = append(lines, line{no: no, fields: strings.Fields(text), text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, true, errors.CorpusFormat(name, no+1, err.Error())
	}
	return lines, true, nil
}

// keyRest splits a line into its first token and the trimmed remainder.
func keyRest(name string, l line) (string, string, error) {
	key := l.fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(l.text, key))
	if rest == "" {
		return "", "", errors.CorpusFormat(name, l.no, "missing value for key "+strconv.Quote(key))
	}
	return key, rest, nil
}

func parseSeconds(name string, l line, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.CorpusFormat(name, l.no, "time "+strconv.Quote(s)+" is not numeric")
	}
	return v, nil
}

func parseSegment(l line) (Segment, error) {
	if len(l.fields) != 4 {
		return Segment{}, errors.CorpusFormat(FileSegments, l.no,
			"expected 4 fields (utt rec start end), got "+strconv.Itoa(len(l.fields)))
	}
	st, err := parseSeconds(FileSegments, l, l.fields[2])
	if err != nil {
		return Segment{}, err
	}
	et, err := parseSeconds(FileSegments, l, l.fields[3])
	if err != nil {
		return Segment{}, err
	}
	if et <= st {
		return Segment{}, errors.CorpusFormat(FileSegments, l.no, "end time must be greater than start time")
	}
	return Segment{Utterance: l.fields[0], Recording: l.fields[1], Start: st, End: et}, nil
}
