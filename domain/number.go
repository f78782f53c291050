package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Form numbers follow the browser's parseInt/parseFloat rules: the longest numeric
// prefix wins and anything else is NaN. NaN travels to the backend as JSON null or
// the literal "NaN" in a query string, where the backend rejects it.
var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

const notANumber = "NaN"

type Quantity struct {
	Value int64
	Valid bool
}

func QuantityOf(v int64) Quantity {
	return Quantity{Value: v, Valid: true}
}

func ParseQuantity(s string) Quantity {
	m := intPrefix.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return Quantity{}
	}
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return Quantity{}
	}
	return QuantityOf(v)
}

func (q Quantity) String() string {
	if !q.Valid {
		return notANumber
	}
	return strconv.FormatInt(q.Value, 10)
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(q.Value)
}

type Amount struct {
	Value float64
	Valid bool
}

func AmountOf(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

func ParseAmount(s string) Amount {
	m := floatPrefix.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return Amount{}
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return Amount{}
	}
	return AmountOf(v)
}

func (a Amount) String() string {
	if !a.Valid {
		return notANumber
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}
