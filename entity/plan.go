package entity

import (
	"github.com/shopspring/decimal"
)

type Plan struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	BillingPeriod string          `json:"period"`
	Description   string          `json:"description"`
}

func (p Plan) Selection() PlanSelection {
	return PlanSelection{
		Name:          p.Name,
		Price:         p.Price,
		BillingPeriod: p.BillingPeriod,
	}
}
