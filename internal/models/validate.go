package models

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator devuelve la instancia compartida con las reglas del catálogo
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterStructValidation(orderDatesValidation, Order{})
		validate.RegisterStructValidation(orderItemDatesValidation, OrderItem{})
	})
	return validate
}

// Validate aplica las reglas de los tags validate
func Validate(v any) error {
	return Validator().Struct(v)
}

// Las fechas de envío y devolución no pueden ser anteriores a la creación,
// y la entrega no puede ser anterior al envío.
func orderDatesValidation(sl validator.StructLevel) {
	o := sl.Current().Interface().(Order)
	if o.ShippedAt != nil && o.ShippedAt.Before(o.CreatedAt) {
		sl.ReportError(o.ShippedAt, "ShippedAt", "shipped_at", "gtecreated", "")
	}
	if o.ReturnedAt != nil && o.ReturnedAt.Before(o.CreatedAt) {
		sl.ReportError(o.ReturnedAt, "ReturnedAt", "returned_at", "gtecreated", "")
	}
	if o.DeliveredAt != nil && o.ShippedAt != nil && o.DeliveredAt.Before(*o.ShippedAt) {
		sl.ReportError(o.DeliveredAt, "DeliveredAt", "delivered_at", "gteshipped", "")
	}
}

func orderItemDatesValidation(sl validator.StructLevel) {
	it := sl.Current().Interface().(OrderItem)
	if it.ShippedAt != nil && !it.CreatedAt.IsZero() && it.ShippedAt.Before(it.CreatedAt) {
		sl.ReportError(it.ShippedAt, "ShippedAt", "shipped_at", "gtecreated", "")
	}
	if it.DeliveredAt != nil && it.ShippedAt != nil && it.DeliveredAt.Before(*it.ShippedAt) {
		sl.ReportError(it.DeliveredAt, "DeliveredAt", "delivered_at", "gteshipped", "")
	}
}
