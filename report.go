package bsm

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/golang/glog"
)

// ReportRow is one line of a pricing report file.
type ReportRow struct {
	Type     string  `csv:"type"`
	Spot     float64 `csv:"spot"`
	Strike   float64 `csv:"strike"`
	Start    Date    `csv:"start"`
	Maturity Date    `csv:"maturity"`
	Days     int     `csv:"days"`
	Sigma    float64 `csv:"sigma"`
	Rate     float64 `csv:"rate"`
	Price    float64 `csv:"price"`
	Delta    float64 `csv:"delta"`
	Gamma    float64 `csv:"gamma"`
	Vega     float64 `csv:"vega"`
	Theta    float64 `csv:"theta"`
	Error    string  `csv:"error"`
}

func NewReportRow(row BatchRow) ReportRow {
	spec := row.Spec
	report := ReportRow{
		Type:     spec.Kind().String(),
		Spot:     spec.Spot(),
		Strike:   spec.Strike(),
		Start:    Date{Time: spec.StartDate()},
		Maturity: Date{Time: spec.MaturityDate()},
		Days:     spec.DaysToMaturity(),
		Sigma:    spec.Sigma(),
		Rate:     spec.Rate(),
	}
	if row.Err != nil {
		report.Error = row.Err.Error()
		return report
	}
	report.Price = row.Result.Price
	report.Delta = row.Result.Delta
	report.Gamma = row.Result.Gamma
	report.Vega = row.Result.Vega
	report.Theta = row.Result.Theta
	return report
}

// AppendReport appends rows to the CSV report at path, creating it if needed.
// The header line is written only when the file is empty.
func AppendReport(path string, rows []BatchRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		msg := fmt.Sprintf("Opening report %s failed with error=%s", path, err)
		glog.Error(msg)
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	reportRows := make([]ReportRow, len(rows))
	for ii, row := range rows {
		reportRows[ii] = NewReportRow(row)
	}

	if stat.Size() == 0 {
		err = gocsv.Marshal(&reportRows, file)
	} else {
		err = gocsv.MarshalWithoutHeaders(&reportRows, file)
	}
	if err != nil {
		msg := fmt.Sprintf("Writing report %s failed with error=%s", path, err)
		glog.Error(msg)
		return err
	}
	glog.Infof("Appended %d rows to %s", len(reportRows), path)
	return nil
}
