package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ecommerce-catalog/internal/models"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// row es un registro del archivo indexado por encabezado en minúsculas
type row map[string]string

type rowParser struct {
	r    row
	errs []error
}

func (p *rowParser) str(col string) string {
	return p.r[col]
}

func (p *rowParser) float(col string) float64 {
	v := p.r[col]
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid number %q", col, v))
		return 0
	}
	return f
}

func (p *rowParser) optFloat(col string) *float64 {
	if p.r[col] == "" {
		return nil
	}
	f := p.float(col)
	return &f
}

func (p *rowParser) optInt(col string) *int {
	v := p.r[col]
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", col, v))
		return nil
	}
	return &n
}

func (p *rowParser) integer(col string) int {
	if n := p.optInt(col); n != nil {
		return *n
	}
	return 0
}

func (p *rowParser) optTime(col string) *time.Time {
	v := p.r[col]
	if v == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	p.errs = append(p.errs, fmt.Errorf("%s: invalid date %q", col, v))
	return nil
}

// timeOr devuelve fallback cuando la columna está vacía
func (p *rowParser) timeOr(col string, fallback time.Time) time.Time {
	if t := p.optTime(col); t != nil {
		return *t
	}
	return fallback
}

func (p *rowParser) err() error {
	return errors.Join(p.errs...)
}

// record es un documento listo para insertar con sus claves de unicidad
type record struct {
	doc  any
	keys []string
}

type builder func(r row, now time.Time) (record, error)

var builders = map[Kind]builder{
	KindProducts:            buildProduct,
	KindUsers:               buildUser,
	KindOrders:              buildOrder,
	KindOrderItems:          buildOrderItem,
	KindInventoryItems:      buildInventoryItem,
	KindDistributionCenters: buildDistributionCenter,
}

func buildProduct(r row, now time.Time) (record, error) {
	p := &rowParser{r: r}
	created := p.timeOr("created_at", now)
	product := models.Product{
		ID:                   p.str("id"),
		SKU:                  p.str("sku"),
		Name:                 p.str("name"),
		Category:             p.str("category"),
		Brand:                p.str("brand"),
		Cost:                 p.float("cost"),
		RetailPrice:          p.float("retail_price"),
		Department:           p.str("department"),
		DistributionCenterID: p.str("distribution_center_id"),
		CreatedAt:            created,
		UpdatedAt:            created,
	}
	// El departamento legado es obligatorio en la carga
	if product.Department == "" {
		p.errs = append(p.errs, errors.New("department: required"))
	}
	return finish(p, product, "id:"+product.ID, "sku:"+product.SKU)
}

func buildUser(r row, now time.Time) (record, error) {
	p := &rowParser{r: r}
	user := models.User{
		ID:            p.str("id"),
		FirstName:     p.str("first_name"),
		LastName:      p.str("last_name"),
		Email:         p.str("email"),
		Age:           p.optInt("age"),
		Gender:        p.str("gender"),
		State:         p.str("state"),
		StreetAddress: p.str("street_address"),
		PostalCode:    p.str("postal_code"),
		City:          p.str("city"),
		Country:       p.str("country"),
		Latitude:      p.optFloat("latitude"),
		Longitude:     p.optFloat("longitude"),
		TrafficSource: p.str("traffic_source"),
		CreatedAt:     p.timeOr("created_at", now),
	}
	return finish(p, user, "id:"+user.ID)
}

func buildOrder(r row, now time.Time) (record, error) {
	p := &rowParser{r: r}
	order := models.Order{
		OrderID:     p.str("order_id"),
		UserID:      p.str("user_id"),
		Status:      p.str("status"),
		Gender:      p.str("gender"),
		CreatedAt:   p.timeOr("created_at", now),
		ReturnedAt:  p.optTime("returned_at"),
		ShippedAt:   p.optTime("shipped_at"),
		DeliveredAt: p.optTime("delivered_at"),
		NumOfItem:   p.integer("num_of_item"),
	}
	return finish(p, order, "order_id:"+order.OrderID)
}

func buildOrderItem(r row, now time.Time) (record, error) {
	p := &rowParser{r: r}
	item := models.OrderItem{
		ID:              p.str("id"),
		OrderID:         p.str("order_id"),
		UserID:          p.str("user_id"),
		ProductID:       p.str("product_id"),
		InventoryItemID: p.str("inventory_item_id"),
		Status:          p.str("status"),
		CreatedAt:       p.timeOr("created_at", now),
		ShippedAt:       p.optTime("shipped_at"),
		DeliveredAt:     p.optTime("delivered_at"),
		ReturnedAt:      p.optTime("returned_at"),
	}
	return finish(p, item, "id:"+item.ID)
}

func buildInventoryItem(r row, now time.Time) (record, error) {
	p := &rowParser{r: r}
	item := models.InventoryItem{
		ID:                          p.str("id"),
		ProductID:                   p.str("product_id"),
		CreatedAt:                   p.timeOr("created_at", now),
		SoldAt:                      p.optTime("sold_at"),
		Cost:                        p.float("cost"),
		ProductCategory:             p.str("product_category"),
		ProductName:                 p.str("product_name"),
		ProductBrand:                p.str("product_brand"),
		ProductRetailPrice:          p.float("product_retail_price"),
		ProductDepartment:           p.str("product_department"),
		ProductSKU:                  p.str("product_sku"),
		ProductDistributionCenterID: p.str("product_distribution_center_id"),
	}
	return finish(p, item, "id:"+item.ID)
}

func buildDistributionCenter(r row, _ time.Time) (record, error) {
	p := &rowParser{r: r}
	dc := models.DistributionCenter{
		ID:        p.str("id"),
		Name:      p.str("name"),
		Latitude:  p.float("latitude"),
		Longitude: p.float("longitude"),
	}
	return finish(p, dc, "id:"+dc.ID)
}

func finish(p *rowParser, doc any, keys ...string) (record, error) {
	if err := p.err(); err != nil {
		return record{}, err
	}
	if err := models.Validate(doc); err != nil {
		return record{}, err
	}
	return record{doc: doc, keys: keys}, nil
}
