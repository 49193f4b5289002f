package bsm

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrInvalidQuantity = errors.New("quantity must be finite")

// Position is a signed quantity of one option. Negative quantities are short.
type Position struct {
	Spec     OptionSpec
	Quantity float64
}

// Portfolio is a collection of option positions valued together.
type Portfolio struct {
	Positions []Position
}

func NewPortfolio(positions ...Position) *Portfolio {
	return &Portfolio{Positions: append([]Position{}, positions...)}
}

func (self *Portfolio) Add(spec OptionSpec, quantity float64) {
	self.Positions = append(self.Positions, Position{Spec: spec, Quantity: quantity})
}

// MarkToMarket values every position at its expiry payoff with the
// underlying settling at sT.
func (self *Portfolio) MarkToMarket(sT float64) (decimal.Decimal, error) {
	if !isFinite(sT) || sT < 0 {
		return decimal.Zero, newSpecError("settle", sT, ErrInvalidPrice)
	}
	total := decimal.Zero
	for ii, position := range self.Positions {
		if !position.Spec.Kind().Valid() {
			return decimal.Zero, fmt.Errorf("position %d: %w", ii,
				newSpecError("type", position.Spec.Kind(), ErrUnknownOptionKind))
		}
		payoff := Payoff(position.Spec.Kind(), sT, position.Spec.Strike())
		amount, err := positionAmount(payoff, position.Quantity)
		if err != nil {
			return decimal.Zero, fmt.Errorf("position %d: %w", ii, err)
		}
		total = total.Add(amount)
	}
	return total, nil
}

// TheoreticalValue sums the model price of every position times its
// quantity.
func (self *Portfolio) TheoreticalValue(model PricingModel) (decimal.Decimal, error) {
	total := decimal.Zero
	for ii, position := range self.Positions {
		result, err := model.Evaluate(position.Spec)
		if err != nil {
			return decimal.Zero, fmt.Errorf("position %d: %w", ii, err)
		}
		amount, err := positionAmount(result.Price, position.Quantity)
		if err != nil {
			return decimal.Zero, fmt.Errorf("position %d: %w", ii, err)
		}
		total = total.Add(amount)
	}
	return total, nil
}

// positionAmount is value times quantity in decimal. decimal.NewFromFloat
// panics on NaN and Inf, so both are checked first.
func positionAmount(value float64, quantity float64) (decimal.Decimal, error) {
	if !isFinite(quantity) {
		return decimal.Zero, newSpecError("quantity", quantity, ErrInvalidQuantity)
	}
	if !isFinite(value) {
		return decimal.Zero, newSpecError("value", value, ErrNumericalOverflow)
	}
	return decimal.NewFromFloat(value).Mul(decimal.NewFromFloat(quantity)), nil
}

type positionFile struct {
	Positions []positionEntry `yaml:"positions"`
}

type positionEntry struct {
	Type     string  `yaml:"type"`
	Spot     float64 `yaml:"spot"`
	Strike   float64 `yaml:"strike"`
	Start    string  `yaml:"start"`
	Maturity string  `yaml:"maturity"`
	Sigma    float64 `yaml:"sigma"`
	Rate     float64 `yaml:"rate"`
	Dividend float64 `yaml:"dividend"`
	Quantity float64 `yaml:"quantity"`
}

func (self *positionEntry) position() (Position, error) {
	kind, err := ParseOptionKind(self.Type)
	if err != nil {
		return Position{}, err
	}
	start, err := ParseDate(self.Start)
	if err != nil {
		return Position{}, fmt.Errorf("start: %w", err)
	}
	maturity, err := ParseDate(self.Maturity)
	if err != nil {
		return Position{}, fmt.Errorf("maturity: %w", err)
	}
	spec, err := NewOptionSpec(kind, self.Spot, self.Strike, start.Time,
		maturity.Time, self.Sigma, self.Rate, self.Dividend)
	if err != nil {
		return Position{}, err
	}
	if !isFinite(self.Quantity) {
		return Position{}, newSpecError("quantity", self.Quantity, ErrInvalidQuantity)
	}
	return Position{Spec: spec, Quantity: self.Quantity}, nil
}

// LoadPortfolio reads a YAML file with a top level "positions" list.
func LoadPortfolio(path string) (*Portfolio, error) {
	buf, err := readInput(path)
	if err != nil {
		return nil, err
	}
	portfolio, err := ParsePortfolio(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return portfolio, nil
}

func ParsePortfolio(data []byte) (*Portfolio, error) {
	var file positionFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		msg := fmt.Sprintf("Parsing portfolio failed with error=%s", err)
		glog.Error(msg)
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}

	portfolio := NewPortfolio()
	for ii := range file.Positions {
		position, err := file.Positions[ii].position()
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", ii, err)
		}
		portfolio.Positions = append(portfolio.Positions, position)
	}
	return portfolio, nil
}
