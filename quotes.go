package bsm

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/golang/glog"
)

// QuoteRecord is one row of a quote file:
//
//	type,spot,strike,start,maturity,sigma,rate,dividend
//
// The dividend column is optional.
type QuoteRecord struct {
	Type     string  `csv:"type"`
	Spot     float64 `csv:"spot"`
	Strike   float64 `csv:"strike"`
	Start    Date    `csv:"start"`
	Maturity Date    `csv:"maturity"`
	Sigma    float64 `csv:"sigma"`
	Rate     float64 `csv:"rate"`
	Dividend float64 `csv:"dividend"`
}

func (self *QuoteRecord) Spec() (OptionSpec, error) {
	kind, err := ParseOptionKind(self.Type)
	if err != nil {
		return OptionSpec{}, err
	}
	return NewOptionSpec(kind, self.Spot, self.Strike, self.Start.Time,
		self.Maturity.Time, self.Sigma, self.Rate, self.Dividend)
}

// ReadQuotes loads a quote file. Files ending in .gz are decompressed.
func ReadQuotes(path string) ([]QuoteRecord, error) {
	buf, err := readInput(path)
	if err != nil {
		return nil, err
	}
	records, err := ParseQuotes(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func ParseQuotes(in io.Reader) ([]QuoteRecord, error) {
	records := []QuoteRecord{}
	if err := gocsv.UnmarshalCSV(newHeaderReader(in), &records); err != nil {
		msg := fmt.Sprintf("Parsing quotes failed with error=%s", err)
		glog.Error(msg)
		return nil, fmt.Errorf("parse quotes: %w", err)
	}
	glog.V(1).Infof("Parsed %d quote records", len(records))
	return records, nil
}

// QuoteSpecs converts every record. Rows that fail validation are returned in
// rejected, keyed by their zero-based row index, instead of failing the load.
func QuoteSpecs(records []QuoteRecord) (specs []OptionSpec, rows []int, rejected map[int]error) {
	rejected = map[int]error{}
	for ii := range records {
		spec, err := records[ii].Spec()
		if err != nil {
			rejected[ii] = err
			continue
		}
		specs = append(specs, spec)
		rows = append(rows, ii)
	}
	return specs, rows, rejected
}
