package service

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 redondea a dos decimales
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Profit calcula el margen y su porcentaje sobre el costo.
// El porcentaje es nil cuando el costo es 0.
func Profit(cost, retailPrice float64) (margin float64, percentage *float64) {
	c := decimal.NewFromFloat(cost)
	m := decimal.NewFromFloat(retailPrice).Sub(c)

	margin = m.Round(2).InexactFloat64()
	if c.IsZero() {
		return margin, nil
	}
	pct := m.Div(c).Mul(hundred).Round(2).InexactFloat64()
	return margin, &pct
}
