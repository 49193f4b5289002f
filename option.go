package bsm

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang/glog"
)

const (
	// Actual/365 day count used for time to maturity and daily theta.
	kDaysPerYear = 365.0

	kSecondsPerDay = 24 * 60 * 60
)

var (
	ErrInvalidDateRange  = errors.New("maturity date must be after start date")
	ErrInvalidVolatility = errors.New("volatility must be positive")
	ErrInvalidPrice      = errors.New("spot and strike must be positive")
	ErrInvalidRate       = errors.New("rate and dividend must be finite")
	ErrUnknownOptionKind = errors.New("option kind must be call or put")
	ErrNumericalOverflow = errors.New("inputs overflow the pricing formulas")
)

// SpecError names the OptionSpec field that failed validation. It unwraps to
// one of the Err* sentinels above.
type SpecError struct {
	Field string
	Value interface{}
	Err   error
}

func (self *SpecError) Error() string {
	return fmt.Sprintf("invalid %s=%v: %s", self.Field, self.Value, self.Err)
}

func (self *SpecError) Unwrap() error {
	return self.Err
}

func newSpecError(field string, value interface{}, err error) error {
	specErr := &SpecError{Field: field, Value: value, Err: err}
	glog.Error(specErr.Error())
	return specErr
}

type OptionKind int

const (
	kUnknownKind OptionKind = iota
	Call
	Put
)

func (self OptionKind) String() string {
	switch self {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("OptionKind(%d)", int(self))
}

func (self OptionKind) Valid() bool {
	return self == Call || self == Put
}

// ParseOptionKind accepts the long names as well as the exchange shorthands
// (c/p, ce/pe).
func ParseOptionKind(value string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "call", "c", "ce":
		return Call, nil
	case "put", "p", "pe":
		return Put, nil
	}
	return kUnknownKind, newSpecError("type", value, ErrUnknownOptionKind)
}

// OptionSpec is an immutable set of market inputs for one European option.
// The zero value is not valid; use NewOptionSpec.
type OptionSpec struct {
	kind         OptionKind
	spot         float64
	strike       float64
	startDate    time.Time
	maturityDate time.Time
	sigma        float64
	rate         float64
	dividend     float64
}

func NewOptionSpec(
	kind OptionKind,
	spot float64,
	strike float64,
	startDate time.Time,
	maturityDate time.Time,
	sigma float64,
	rate float64,
	dividend float64) (OptionSpec, error) {

	spec := OptionSpec{
		kind:         kind,
		spot:         spot,
		strike:       strike,
		startDate:    truncateToDate(startDate),
		maturityDate: truncateToDate(maturityDate),
		sigma:        sigma,
		rate:         rate,
		dividend:     dividend,
	}
	if err := spec.Validate(); err != nil {
		return OptionSpec{}, err
	}
	return spec, nil
}

// Validate checks every precondition of the pricing formulas. NaN inputs fail
// the positivity checks.
func (self OptionSpec) Validate() error {
	if !self.kind.Valid() {
		return newSpecError("type", self.kind, ErrUnknownOptionKind)
	}
	if !(self.spot > 0) || math.IsInf(self.spot, 1) {
		return newSpecError("spot", self.spot, ErrInvalidPrice)
	}
	if !(self.strike > 0) || math.IsInf(self.strike, 1) {
		return newSpecError("strike", self.strike, ErrInvalidPrice)
	}
	if !(self.sigma > 0) || math.IsInf(self.sigma, 1) {
		return newSpecError("sigma", self.sigma, ErrInvalidVolatility)
	}
	if math.IsNaN(self.rate) || math.IsInf(self.rate, 0) {
		return newSpecError("rate", self.rate, ErrInvalidRate)
	}
	if math.IsNaN(self.dividend) || math.IsInf(self.dividend, 0) {
		return newSpecError("dividend", self.dividend, ErrInvalidRate)
	}
	if !self.maturityDate.After(self.startDate) {
		return newSpecError("maturity",
			self.maturityDate.Format(DefaultDateLayout), ErrInvalidDateRange)
	}
	return nil
}

func (self OptionSpec) Kind() OptionKind        { return self.kind }
func (self OptionSpec) Spot() float64           { return self.spot }
func (self OptionSpec) Strike() float64         { return self.strike }
func (self OptionSpec) StartDate() time.Time    { return self.startDate }
func (self OptionSpec) MaturityDate() time.Time { return self.maturityDate }
func (self OptionSpec) Sigma() float64          { return self.sigma }
func (self OptionSpec) Rate() float64           { return self.rate }

// Dividend is carried for callers but does not enter the pricing formulas.
func (self OptionSpec) Dividend() float64 { return self.dividend }

// DaysToMaturity counts calendar days between the start and maturity dates.
// Both are UTC midnights, so the difference in Unix seconds is a whole number
// of days. time.Duration would saturate after about 292 years.
func (self OptionSpec) DaysToMaturity() int {
	return int((self.maturityDate.Unix() - self.startDate.Unix()) / kSecondsPerDay)
}

// TimeToMaturity is the Actual/365 year fraction.
func (self OptionSpec) TimeToMaturity() float64 {
	return float64(self.DaysToMaturity()) / kDaysPerYear
}

func (self OptionSpec) DiscountFactor() float64 {
	return math.Exp(-self.rate * self.TimeToMaturity())
}

func (self OptionSpec) D1() float64 {
	t := self.TimeToMaturity()
	return computeD1(self.spot, self.strike, self.rate, self.sigma, t,
		self.sigma*math.Sqrt(t))
}

func (self OptionSpec) D2() float64 {
	return self.D1() - self.sigma*math.Sqrt(self.TimeToMaturity())
}

// WithSpot returns a validated copy repriced at a different underlying level.
func (self OptionSpec) WithSpot(spot float64) (OptionSpec, error) {
	return NewOptionSpec(self.kind, spot, self.strike, self.startDate,
		self.maturityDate, self.sigma, self.rate, self.dividend)
}

func (self OptionSpec) WithStrike(strike float64) (OptionSpec, error) {
	return NewOptionSpec(self.kind, self.spot, strike, self.startDate,
		self.maturityDate, self.sigma, self.rate, self.dividend)
}

func (self OptionSpec) WithSigma(sigma float64) (OptionSpec, error) {
	return NewOptionSpec(self.kind, self.spot, self.strike, self.startDate,
		self.maturityDate, sigma, self.rate, self.dividend)
}

func (self OptionSpec) WithKind(kind OptionKind) (OptionSpec, error) {
	return NewOptionSpec(kind, self.spot, self.strike, self.startDate,
		self.maturityDate, self.sigma, self.rate, self.dividend)
}

func (self OptionSpec) String() string {
	return fmt.Sprintf("%s spot=%.4f strike=%.4f start=%s maturity=%s "+
		"sigma=%.4f rate=%.4f dividend=%.4f",
		self.kind, self.spot, self.strike,
		self.startDate.Format(DefaultDateLayout),
		self.maturityDate.Format(DefaultDateLayout),
		self.sigma, self.rate, self.dividend)
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
