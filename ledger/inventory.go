package ledger

// InventoryItem is the net quantity a rep holds of one product.
type InventoryItem struct {
	RepID       RepID     `json:"repId"`
	RepName     string    `json:"repName"`
	ProductID   ProductID `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int64     `json:"quantity"`
}

type holding struct {
	rep     RepID
	product ProductID
}

// ComputeInventory nets consignments against sales and returns per
// (rep, product) inside the window.
//
// Sales and returns only subtract from a pair that already has a
// consignment entry in the window; a sale with no prior consignment is
// ignored rather than creating negative stock. Pairs netting to exactly
// zero are dropped. Negative pairs are kept because they point at
// inconsistent data. Items come out in order of first consignment.
func ComputeInventory(recs Records, w Window) []InventoryItem {
	reps := recs.repIndex()
	products := recs.productIndex()

	qty := make(map[holding]int64)
	var order []holding

	for _, c := range recs.Consignments {
		if !w.Contains(c.Date) {
			continue
		}
		k := holding{rep: c.RepID, product: c.ProductID}
		if _, ok := qty[k]; !ok {
			order = append(order, k)
		}
		qty[k] += c.Quantity
	}

	subtract := func(rep RepID, product ProductID, n int64, date Timestamp) {
		if !w.Contains(date) {
			return
		}
		k := holding{rep: rep, product: product}
		if _, ok := qty[k]; ok {
			qty[k] -= n
		}
	}
	for _, s := range recs.Sales {
		subtract(s.RepID, s.ProductID, s.Quantity, s.Date)
	}
	for _, r := range recs.Returns {
		subtract(r.RepID, r.ProductID, r.Quantity, r.Date)
	}

	items := make([]InventoryItem, 0, len(order))
	for _, k := range order {
		if qty[k] == 0 {
			continue
		}
		item := InventoryItem{
			RepID:       k.rep,
			RepName:     UnknownName,
			ProductID:   k.product,
			ProductName: UnknownName,
			Quantity:    qty[k],
		}
		if rep, ok := reps[k.rep]; ok {
			item.RepName = rep.Name
		}
		if p, ok := products[k.product]; ok {
			item.ProductName = p.Name
		}
		items = append(items, item)
	}
	return items
}
