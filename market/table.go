package market

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/banachtech/quantpricer/curve"
	"github.com/banachtech/quantpricer/vol"
)

// Table is a column-oriented slice of tabular market data, the in-memory form
// of one spreadsheet sheet. Column names are matched case-insensitively.
type Table struct {
	columns map[string][]string
	rows    int
}

// NewTable builds a table from named columns. All columns must have equal length.
func NewTable(columns map[string][]string) (*Table, error) {
	t := &Table{columns: map[string][]string{}}
	first := true
	for name, col := range columns {
		if first {
			t.rows = len(col)
			first = false
		} else if len(col) != t.rows {
			return nil, fmt.Errorf("market: column %q has %d rows, expected %d", name, len(col), t.rows)
		}
		t.columns[strings.ToLower(name)] = col
	}
	return t, nil
}

func (t *Table) column(name string) ([]string, bool) {
	c, ok := t.columns[strings.ToLower(name)]
	return c, ok
}

// require checks that for every required column at least one of its aliases is
// present, and reports every missing one at once.
func (t *Table) require(aliases ...[]string) error {
	var missing []string
	for _, names := range aliases {
		found := false
		for _, n := range names {
			if _, ok := t.column(n); ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, strings.Join(names, "|"))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("market: missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (t *Table) floats(aliases ...string) ([]float64, error) {
	for _, name := range aliases {
		col, ok := t.column(name)
		if !ok {
			continue
		}
		out := make([]float64, len(col))
		for i, s := range col {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("market: column %q row %d: %w", name, i, err)
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("market: missing column %s", strings.Join(aliases, "|"))
}

var tenorRe = regexp.MustCompile(`^(\d+)([WMY])$`)

// ParseTenor converts a compact tenor string like "3M", "2W" or "10Y" into a
// year fraction using W/52, M/12, Y/1.
func ParseTenor(s string) (float64, error) {
	m := tenorRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("market: invalid tenor %q, expected <n>W, <n>M or <n>Y", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	switch m[2] {
	case "W":
		return float64(n) / 52.0, nil
	case "M":
		return float64(n) / 12.0, nil
	default:
		return float64(n), nil
	}
}

// maturities parses a maturity column that may hold either tenor strings or
// plain year fractions.
func (t *Table) maturities(aliases ...string) ([]float64, error) {
	for _, name := range aliases {
		col, ok := t.column(name)
		if !ok {
			continue
		}
		out := make([]float64, len(col))
		for i, s := range col {
			if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				out[i] = v
				continue
			}
			v, err := ParseTenor(s)
			if err != nil {
				return nil, fmt.Errorf("market: column %q row %d: %w", name, i, err)
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("market: missing column %s", strings.Join(aliases, "|"))
}

// CurveFromTable builds a rate curve from a yield table with columns
// Maturity (or Pillar) and Rate.
func CurveFromTable(t *Table, method string) (*curve.RateCurve, error) {
	if err := t.require([]string{"Maturity", "Pillar"}, []string{"Rate"}); err != nil {
		return nil, err
	}
	ms, err := t.maturities("Maturity", "Pillar")
	if err != nil {
		return nil, err
	}
	rs, err := t.floats("Rate")
	if err != nil {
		return nil, err
	}
	return curve.NewRateCurve(ms, rs, method)
}

// QuotesFromTable extracts vol quotes and the spot from an option-market table
// with columns Strike, Maturity, Implied Volatility and Spot.
func QuotesFromTable(t *Table) (float64, []vol.Quote, error) {
	err := t.require([]string{"Strike"}, []string{"Maturity"}, []string{"Implied Volatility"}, []string{"Spot"})
	if err != nil {
		return 0, nil, err
	}
	ks, err := t.floats("Strike")
	if err != nil {
		return 0, nil, err
	}
	ms, err := t.maturities("Maturity")
	if err != nil {
		return 0, nil, err
	}
	vs, err := t.floats("Implied Volatility")
	if err != nil {
		return 0, nil, err
	}
	spots, err := t.floats("Spot")
	if err != nil {
		return 0, nil, err
	}
	quotes := make([]vol.Quote, len(ks))
	for i := range ks {
		quotes[i] = vol.Quote{Strike: ks[i], Maturity: ms[i], Vol: vs[i]}
	}
	return spots[0], quotes, nil
}

// UnderlyingFromTable extracts the first underlying reference from a table
// with columns Ticker, ISIN, Is Index and Last Price.
func UnderlyingFromTable(t *Table) (Underlying, error) {
	err := t.require([]string{"Ticker"}, []string{"ISIN"}, []string{"Is Index"}, []string{"Last Price"})
	if err != nil {
		return Underlying{}, err
	}
	tickers, _ := t.column("Ticker")
	if len(tickers) == 0 {
		return Underlying{}, fmt.Errorf("market: empty underlying table")
	}
	isins, _ := t.column("ISIN")
	flags, _ := t.column("Is Index")
	prices, err := t.floats("Last Price")
	if err != nil {
		return Underlying{}, err
	}
	isIndex, err := strconv.ParseBool(strings.TrimSpace(flags[0]))
	if err != nil {
		return Underlying{}, fmt.Errorf("market: column \"Is Index\" row 0: %w", err)
	}
	return Underlying{
		Ticker:    tickers[0],
		ISIN:      isins[0],
		IsIndex:   isIndex,
		LastPrice: prices[0],
	}, nil
}
