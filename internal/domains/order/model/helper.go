package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CALCULATION HELPERS
// =====================================================

// BuildOrderDetails snapshots request lines into order details.
// TotalPrice = Price * Quantity
func BuildOrderDetails(lines []CreateOrderDetail) []OrderDetail {
	details := make([]OrderDetail, 0, len(lines))
	for _, l := range lines {
		details = append(details, OrderDetail{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.Price,
			TotalPrice:  l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return details
}

// MergeOrderDetails copies the lines of several orders into one slice,
// merging quantities of the same product at the same price
func MergeOrderDetails(orders []*Order) []OrderDetail {
	type key struct {
		productID int64
		price     string
	}

	index := make(map[key]int)
	var merged []OrderDetail
	for _, o := range orders {
		for _, d := range o.Details {
			k := key{productID: d.ProductID, price: d.Price.String()}
			if i, ok := index[k]; ok {
				merged[i].Quantity += d.Quantity
				merged[i].TotalPrice = merged[i].Price.Mul(decimal.NewFromInt(int64(merged[i].Quantity)))
				continue
			}
			index[k] = len(merged)
			merged = append(merged, OrderDetail{
				ProductID:   d.ProductID,
				ProductName: d.ProductName,
				Quantity:    d.Quantity,
				Price:       d.Price,
				TotalPrice:  d.TotalPrice,
			})
		}
	}
	return merged
}

// GenerateOrderCode returns a human readable code: ORD-20251018-3F9A1C2B
func GenerateOrderCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
