package models

type Product struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	SalePrice   *float64          `json:"sale_price,omitempty"`
	Rating      float64           `json:"rating"`
	ReviewCount int               `json:"review_count"`
	IsNew       bool              `json:"is_new"`
	IsFeatured  bool              `json:"is_featured"`
	Properties  map[string]string `json:"properties,omitempty"`
}

// EffectivePrice is the price a unit sells at: the sale price when one is
// set, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}

	return p.Price
}

type CreateProductRequest struct {
	Name        string            `json:"name" validate:"required,min=3,max=200"`
	Category    string            `json:"category" validate:"required"`
	Description string            `json:"description,omitempty"`
	Price       float64           `json:"price" validate:"required,gt=0"`
	SalePrice   *float64          `json:"sale_price,omitempty" validate:"omitempty,gt=0"`
	IsNew       bool              `json:"is_new"`
	IsFeatured  bool              `json:"is_featured"`
	Properties  map[string]string `json:"properties,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Category    *string           `json:"category,omitempty"`
	Description *string           `json:"description,omitempty"`
	Price       *float64          `json:"price,omitempty" validate:"omitempty,gt=0"`
	SalePrice   *float64          `json:"sale_price,omitempty" validate:"omitempty,gt=0"`
	IsNew       *bool             `json:"is_new,omitempty"`
	IsFeatured  *bool             `json:"is_featured,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
}
