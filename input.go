package bsm

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
)

const kGzipSuffix = ".gz"

// Layouts accepted for dates in input files, tried in order.
var kDateLayouts = []string{
	DefaultDateLayout,
	"2006/01/02",
	"02-Jan-2006",
	"01/02/2006",
}

// Date is a calendar date that reads and writes itself as a CSV cell.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	for _, layout := range kDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return Date{Time: truncateToDate(t)}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognised date %q, expected %s", value,
		DefaultDateLayout)
}

func (self *Date) UnmarshalCSV(value string) error {
	date, err := ParseDate(value)
	if err != nil {
		return err
	}
	*self = date
	return nil
}

func (self Date) MarshalCSV() (string, error) {
	return self.Format(DefaultDateLayout), nil
}

func (self Date) String() string {
	return self.Format(DefaultDateLayout)
}

// readInput reads a whole input file, decompressing it when the name ends in
// .gz.
func readInput(path string) (*bytes.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		msg := fmt.Sprintf("Opening %s failed with error=%s", path, err)
		glog.Error(msg)
		return nil, err
	}
	defer file.Close()

	var buf *bytes.Buffer
	if strings.HasSuffix(strings.ToLower(path), kGzipSuffix) {
		buf, err = readGzip(file)
	} else {
		buf, err = readPlain(file)
	}
	if err != nil {
		msg := fmt.Sprintf("Reading %s failed with error=%s", path, err)
		glog.Error(msg)
		return nil, err
	}
	glog.V(1).Infof("Read %d bytes from %s", buf.Len(), path)
	return buf, nil
}

func readGzip(in io.Reader) (*bytes.Buffer, error) {
	reader, err := gzip.NewReader(in)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return readPlain(reader)
}

func readPlain(in io.Reader) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(in); err != nil {
		return nil, err
	}
	return buf, nil
}

// headerReader lower-cases and trims the header row so column names match
// regardless of how the file was written.
type headerReader struct {
	reader     *csv.Reader
	headerRead bool
}

func newHeaderReader(in io.Reader) *headerReader {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true
	return &headerReader{reader: reader}
}

func (self *headerReader) Read() ([]string, error) {
	row, err := self.reader.Read()
	if err != nil {
		return nil, err
	}
	if !self.headerRead {
		self.headerRead = true
		for ii, col := range row {
			row[ii] = strings.ToLower(strings.TrimSpace(col))
		}
	}
	return row, nil
}

func (self *headerReader) ReadAll() ([][]string, error) {
	rows := [][]string{}
	for {
		row, err := self.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
