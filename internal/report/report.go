// Package report derives summary views from already-loaded records. The
// functions do no I/O and never modify their input.
package report

import (
	"sort"
	"strings"

	"heavysync/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DuplicateSupplierCodes returns every supplier code that appears more than
// once, in the order each duplicate was first seen. Blank codes are ignored.
func DuplicateSupplierCodes(suppliers []model.Supplier) []string {
	seen := make(map[string]bool, len(suppliers))
	reported := make(map[string]bool)
	dups := []string{}

	for _, s := range suppliers {
		code := strings.TrimSpace(s.Code)
		if code == "" {
			continue
		}
		if seen[code] && !reported[code] {
			reported[code] = true
			dups = append(dups, code)
		}
		seen[code] = true
	}
	return dups
}

// LowStockParts returns the parts at or below their minimum stock level.
func LowStockParts(parts []model.Part) []model.Part {
	low := []model.Part{}
	for _, p := range parts {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

// PurchaseOrderStatusCounts counts orders per status. Every known status is
// present in the result, zero when unused.
func PurchaseOrderStatusCounts(orders []model.PurchaseOrder) map[model.PurchaseOrderStatus]int {
	counts := make(map[model.PurchaseOrderStatus]int, len(model.PurchaseOrderStatuses))
	for _, status := range model.PurchaseOrderStatuses {
		counts[status] = 0
	}
	for _, po := range orders {
		counts[po.Status]++
	}
	return counts
}

// OpenPurchaseOrderValue sums the totals of Pending and Approved orders.
func OpenPurchaseOrderValue(orders []model.PurchaseOrder) float64 {
	total := decimal.Zero
	for _, po := range orders {
		if po.Status.IsOpen() {
			total = total.Add(decimal.NewFromFloat(po.TotalAmount))
		}
	}
	return total.Round(2).InexactFloat64()
}

// RankedQuote is one supplier's answer with its position in the comparison.
type RankedQuote struct {
	Rank         int               `json:"rank"`
	SupplierID   uuid.UUID         `json:"supplier"`
	SupplierName string            `json:"supplierName,omitempty"`
	QuotedPrice  *float64          `json:"quotedPrice,omitempty"`
	DeliveryDays *int              `json:"deliveryTime,omitempty"`
	TotalCost    *float64          `json:"totalCost,omitempty"`
	Status       model.QuoteStatus `json:"status"`
}

type Comparison struct {
	QuotationID uuid.UUID     `json:"quotationId"`
	PartNumber  string        `json:"partNumber"`
	PartName    string        `json:"partName"`
	Quantity    int           `json:"quantity"`
	Quotes      []RankedQuote `json:"quotes"`
	Best        *RankedQuote  `json:"best,omitempty"`
}

// CompareQuotes ranks the quotation's suppliers by quoted price, cheapest
// first. Ties go to the faster delivery; unpriced and rejected quotes come
// last. Best is the cheapest priced quote that was not rejected.
func CompareQuotes(q *model.Quotation) Comparison {
	quotes := make([]RankedQuote, 0, len(q.Suppliers))
	for _, qs := range q.Suppliers {
		rq := RankedQuote{
			SupplierID:   qs.SupplierID,
			SupplierName: qs.SupplierName,
			QuotedPrice:  qs.QuotedPrice,
			DeliveryDays: qs.DeliveryDays,
			Status:       qs.Status,
		}
		if qs.QuotedPrice != nil {
			total := decimal.NewFromFloat(*qs.QuotedPrice).
				Mul(decimal.NewFromInt(int64(q.Quantity))).
				Round(2).
				InexactFloat64()
			rq.TotalCost = &total
		}
		quotes = append(quotes, rq)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		a, b := quotes[i], quotes[j]
		if pa, pb := priced(a), priced(b); pa != pb {
			return pa
		}
		if !priced(a) {
			return false
		}
		if *a.QuotedPrice != *b.QuotedPrice {
			return *a.QuotedPrice < *b.QuotedPrice
		}
		return days(a) < days(b)
	})

	cmp := Comparison{
		QuotationID: q.ID,
		PartNumber:  q.PartNumber,
		PartName:    q.PartName,
		Quantity:    q.Quantity,
		Quotes:      quotes,
	}
	for i := range quotes {
		quotes[i].Rank = i + 1
	}
	if len(quotes) > 0 && priced(quotes[0]) {
		best := quotes[0]
		cmp.Best = &best
	}
	return cmp
}

func priced(q RankedQuote) bool {
	return q.QuotedPrice != nil && q.Status != model.QuoteRejected
}

// days orders quotes without a delivery estimate after those with one.
func days(q RankedQuote) int {
	if q.DeliveryDays == nil {
		return int(^uint(0) >> 1)
	}
	return *q.DeliveryDays
}
