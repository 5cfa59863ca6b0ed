package models

type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is a point-in-time snapshot of the synchronized cart. Items keep the
// order the remote API returned them in. ItemCount and TotalPrice are derived
// from Items on every snapshot, never stored independently.
type Cart struct {
	Items      []CartItem `json:"items"`
	ItemCount  int        `json:"item_count"`
	TotalPrice float64    `json:"total_price"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	CartItemID int64 `json:"cart_item_id" validate:"required"`
	Quantity   int   `json:"quantity" validate:"min=0"`
}
