package commerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/medikart/pharmacy-storefront/internal/models"
)

// The remote API is PHP/MySQL backed and loose about types: numeric columns
// arrive as JSON numbers or as strings depending on the endpoint, and the
// product properties column is a JSON object serialized into a string. These
// wire types normalize all of that at the boundary so the rest of the code
// only ever sees well-typed models.

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {

	s := strings.TrimSpace(string(data))

	if s == "null" || s == `""` {
		*f = 0

		return nil
	}

	if s[0] == '"' {

		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid numeric string %s: %w", s, err)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(unquoted), 64)
		if err != nil {
			return fmt.Errorf("non-numeric string %q where number expected: %w", unquoted, err)
		}

		*f = flexFloat(v)

		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", s, err)
	}

	*f = flexFloat(v)

	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

func (i *flexInt) UnmarshalJSON(data []byte) error {

	var f flexFloat

	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}

	*i = flexInt(f)

	return nil
}

// flexBool accepts true/false, 0/1 and their string forms.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {

	s := strings.Trim(strings.TrimSpace(string(data)), `"`)

	switch s {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %q", s)
	}

	return nil
}

// flexProps accepts a JSON object or a JSON-encoded object string. Malformed
// payloads normalize to an empty map rather than failing the whole record.
type flexProps map[string]string

func (p *flexProps) UnmarshalJSON(data []byte) error {

	*p = flexProps{}

	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}

	raw := data

	if s[0] == '"' {

		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return nil
		}

		raw = []byte(encoded)
	}

	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil
	}

	props := make(flexProps, len(loose))

	for k, v := range loose {
		switch val := v.(type) {
		case string:
			props[k] = val
		case float64:
			props[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			props[k] = strconv.FormatBool(val)
		default:
			// nested structures are not meaningful as display properties
		}
	}

	*p = props

	return nil
}

type productRecord struct {
	ID          flexInt    `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Price       flexFloat  `json:"price"`
	SalePrice   *flexFloat `json:"sale_price"`
	Rating      flexFloat  `json:"rating"`
	ReviewCount flexInt    `json:"review_count"`
	IsNew       flexBool   `json:"is_new"`
	IsFeatured  flexBool   `json:"is_featured"`
	Properties  flexProps  `json:"properties"`
}

func (r *productRecord) toProduct() models.Product {

	p := models.Product{
		ID:          int64(r.ID),
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Price:       float64(r.Price),
		Rating:      float64(r.Rating),
		ReviewCount: int(r.ReviewCount),
		IsNew:       bool(r.IsNew),
		IsFeatured:  bool(r.IsFeatured),
		Properties:  map[string]string(r.Properties),
	}

	if r.SalePrice != nil {
		sp := float64(*r.SalePrice)
		p.SalePrice = &sp
	}

	return p
}

// cartRecord is a cart row joined with its product fields, as returned by
// GET /cart.
type cartRecord struct {
	ID        flexInt `json:"id"`
	ProductID flexInt `json:"product_id"`
	Quantity  flexInt `json:"quantity"`
	productRecord
}

func (r *cartRecord) toCartItem() models.CartItem {

	product := r.productRecord.toProduct()
	product.ID = int64(r.ProductID)

	return models.CartItem{
		ID:       int64(r.ID),
		Product:  product,
		Quantity: int(r.Quantity),
	}
}

type customerRecord struct {
	ID        flexInt `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	CreatedAt string  `json:"created_at"`
}

type orderRecord struct {
	ID         flexInt           `json:"id"`
	CustomerID flexInt           `json:"customer_id"`
	Items      []orderItemRecord `json:"items"`
	Total      flexFloat         `json:"total"`
	Status     string            `json:"status"`
	CreatedAt  string            `json:"created_at"`
}

type orderItemRecord struct {
	ProductID flexInt   `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  flexInt   `json:"quantity"`
	UnitPrice flexFloat `json:"unit_price"`
}
