package services

// DividendCapacity is what a year's gross result leaves for the founders
// once corporate tax and the flat tax on dividends are paid.
type DividendCapacity struct {
	GrossResult      float64
	CorporateTax     float64
	DistributableNet float64
	DividendTax      float64
	NetDividends     float64
	NetPerFounder    float64
}

// ComputeDividendCapacity runs a gross result through corporate tax then the
// flat tax on dividends and splits the remainder between founders. A loss
// year distributes nothing. founders below 1 is treated as 1.
func ComputeDividendCapacity(grossResult float64, founders int) DividendCapacity {
	if founders < 1 {
		founders = 1
	}
	c := DividendCapacity{GrossResult: grossResult}
	if grossResult <= 0 {
		return c
	}
	c.CorporateTax = grossResult * CorporateTaxRate
	c.DistributableNet = grossResult - c.CorporateTax
	c.DividendTax = c.DistributableNet * DividendFlatTax
	c.NetDividends = c.DistributableNet - c.DividendTax
	c.NetPerFounder = c.NetDividends / float64(founders)
	return c
}

// RemunerationTarget is a per-founder net income goal and the pre-tax result
// required to fund it through dividends.
type RemunerationTarget struct {
	NetPerFounder       float64
	Founders            int
	RequiredGrossResult float64
}

// DefaultRemunerationTarget is the two-founder baseline the charge structure
// is sized against.
func DefaultRemunerationTarget() RemunerationTarget {
	return RemunerationTarget{
		NetPerFounder:       36000,
		Founders:            2,
		RequiredGrossResult: 137000,
	}
}

// Attained reports whether the gross result funds the target.
func (t RemunerationTarget) Attained(grossResult float64) bool {
	return ComputeDividendCapacity(grossResult, t.Founders).NetPerFounder >= t.NetPerFounder
}

// Shortfall is the missing net income per founder, 0 when the target is met.
func (t RemunerationTarget) Shortfall(grossResult float64) float64 {
	got := ComputeDividendCapacity(grossResult, t.Founders).NetPerFounder
	if got >= t.NetPerFounder {
		return 0
	}
	return t.NetPerFounder - got
}
