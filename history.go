package bsm

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/golang/glog"
	"github.com/montanaflynn/stats"
)

const (
	// Trading days per year used to annualize daily close-to-close
	// volatility.
	DefaultPeriodsPerYear = 252

	kMinHistoryCloses = 3
)

var ErrShortHistory = errors.New("at least 3 closes are required")

type PriceRecord struct {
	Date  Date    `csv:"date"`
	Close float64 `csv:"close"`
}

// PriceHistory is a date-ordered series of closing prices for one
// underlying.
type PriceHistory struct {
	filePath string
	records  []PriceRecord
}

func NewPriceHistory(fileName string) *PriceHistory {
	return &PriceHistory{
		filePath: fileName,
		records:  []PriceRecord{},
	}
}

// NewPriceHistoryFromRecords builds a history without a backing file.
func NewPriceHistoryFromRecords(records []PriceRecord) *PriceHistory {
	history := &PriceHistory{records: append([]PriceRecord{}, records...)}
	history.sortRecords()
	return history
}

func (self *PriceHistory) ReadFile() error {
	buf, err := readInput(self.filePath)
	if err != nil {
		return err
	}

	records := []PriceRecord{}
	if err := gocsv.UnmarshalCSV(newHeaderReader(buf), &records); err != nil {
		msg := fmt.Sprintf("Parsing price history %s failed with error=%s",
			self.filePath, err)
		glog.Error(msg)
		return errors.New(msg)
	}

	self.records = records
	self.sortRecords()
	glog.V(1).Infof("Loaded %d closes from %s", len(self.records), self.filePath)
	return nil
}

func (self *PriceHistory) sortRecords() {
	sort.SliceStable(self.records, func(i, j int) bool {
		return self.records[i].Date.Before(self.records[j].Date.Time)
	})
}

func (self *PriceHistory) Len() int {
	return len(self.records)
}

// GetRecords returns the closes dated within [startDate, endDate].
func (self *PriceHistory) GetRecords(
	startDate time.Time,
	endDate time.Time) []PriceRecord {

	records := []PriceRecord{}
	for _, record := range self.records {
		if record.Date.Before(startDate) || record.Date.After(endDate) {
			continue
		}
		records = append(records, record)
	}
	return records
}

func (self *PriceHistory) GetLatestRecord() *PriceRecord {
	if len(self.records) <= 0 {
		return nil
	}
	return &self.records[len(self.records)-1]
}

func (self *PriceHistory) Closes() []float64 {
	closes := make([]float64, len(self.records))
	for ii, record := range self.records {
		closes[ii] = record.Close
	}
	return closes
}

// RealizedVolatility annualizes the volatility of the whole history.
func (self *PriceHistory) RealizedVolatility(periodsPerYear float64) (float64, error) {
	return RealizedVolatility(self.Closes(), periodsPerYear)
}

// RealizedVolatility is the sample standard deviation of the log returns of
// closes, scaled by the square root of periodsPerYear.
func RealizedVolatility(closes []float64, periodsPerYear float64) (float64, error) {
	if len(closes) < kMinHistoryCloses {
		return 0, ErrShortHistory
	}
	if !(periodsPerYear > 0) {
		return 0, fmt.Errorf("periods per year must be positive, got %v",
			periodsPerYear)
	}

	returns := make(stats.Float64Data, 0, len(closes)-1)
	for ii := 1; ii < len(closes); ii++ {
		prev, cur := closes[ii-1], closes[ii]
		if !(prev > 0) || !(cur > 0) {
			return 0, newSpecError("close", fmt.Sprintf("row %d", ii), ErrInvalidPrice)
		}
		returns = append(returns, math.Log(cur/prev))
	}

	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, err
	}
	return sd * math.Sqrt(periodsPerYear), nil
}
