// Package pricing はカートとチェックアウトで共通の金額計算。
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	// この金額以上で送料無料
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShipping          = decimal.NewFromInt(5)
	TaxRate               = decimal.RequireFromString("0.10")
)

type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Calculate は小計から送料・税・合計を出す。丸めない。
func Calculate(subtotal decimal.Decimal) Summary {
	shipping := FlatShipping
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)

	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

func LineTotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// Display は表示用に小数2桁へ丸める。
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type DisplaySummary struct {
	Subtotal     string `json:"subtotal"`
	Shipping     string `json:"shipping"`
	Tax          string `json:"tax"`
	Total        string `json:"total"`
	FreeShipping bool   `json:"free_shipping"`
}

func (s Summary) Display() DisplaySummary {
	return DisplaySummary{
		Subtotal:     Display(s.Subtotal),
		Shipping:     Display(s.Shipping),
		Tax:          Display(s.Tax),
		Total:        Display(s.Total),
		FreeShipping: s.Shipping.IsZero(),
	}
}

// DiscountPercent は定価からの割引率（%・四捨五入）。定価が無い/安くないなら0。
func DiscountPercent(price decimal.Decimal, compare decimal.NullDecimal) int64 {
	if !compare.Valid || !compare.Decimal.GreaterThan(price) {
		return 0
	}
	pct := compare.Decimal.Sub(price).Div(compare.Decimal).Mul(decimal.NewFromInt(100))
	return pct.Round(0).IntPart()
}
