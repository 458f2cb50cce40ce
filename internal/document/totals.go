package document

import (
	"fmt"
	"math"
)

// Totals is the result of recomputing all derived money fields.
type Totals struct {
	ItemTotals []float64
	Subtotal   float64
	Total      float64
}

// Round2 rounds to two decimal places, the precision of every money field.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Recompute derives line totals, subtotal and total from the given items and
// adjustments. Negative unit prices, quantities or adjustments are rejected;
// a document is never considered consistent until this has run over its
// current items.
func Recompute(items []LineItem, discount, tax, shipping float64) (*Totals, error) {
	if discount < 0 {
		return nil, fmt.Errorf("discount cannot be negative")
	}
	if tax < 0 {
		return nil, fmt.Errorf("tax cannot be negative")
	}
	if shipping < 0 {
		return nil, fmt.Errorf("shipping cannot be negative")
	}

	totals := &Totals{ItemTotals: make([]float64, len(items))}
	for i, item := range items {
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("item %d: unit price cannot be negative", i)
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("item %d: quantity cannot be negative", i)
		}
		lineTotal := Round2(item.UnitPrice * item.Quantity)
		totals.ItemTotals[i] = lineTotal
		totals.Subtotal += lineTotal
	}
	totals.Subtotal = Round2(totals.Subtotal)
	totals.Total = Round2(totals.Subtotal - discount + tax + shipping)
	return totals, nil
}

// ApplyTotals recomputes the quotation's derived fields in place.
func (d *QuotationData) ApplyTotals() error {
	totals, err := Recompute(d.Items, d.Discount, d.Tax, d.Shipping)
	if err != nil {
		return err
	}
	for i := range d.Items {
		d.Items[i].LineTotal = totals.ItemTotals[i]
	}
	d.Subtotal = totals.Subtotal
	d.Total = totals.Total
	return nil
}

// ApplyTotals recomputes the invoice's derived fields in place. The SST
// amount counts as the tax adjustment.
func (d *InvoiceData) ApplyTotals() error {
	totals, err := Recompute(d.Items, d.Discount, d.SSTAmount, d.Shipping)
	if err != nil {
		return err
	}
	for i := range d.Items {
		d.Items[i].LineTotal = totals.ItemTotals[i]
	}
	d.Subtotal = totals.Subtotal
	d.Total = totals.Total
	return nil
}
