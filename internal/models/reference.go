package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User es un cliente de la tienda
type User struct {
	ObjectID      primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID            string             `json:"id" bson:"id" validate:"required"`
	FirstName     string             `json:"first_name" bson:"first_name" validate:"required"`
	LastName      string             `json:"last_name" bson:"last_name" validate:"required"`
	Email         string             `json:"email" bson:"email" validate:"required,email"`
	Age           *int               `json:"age,omitempty" bson:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender        string             `json:"gender,omitempty" bson:"gender,omitempty" validate:"omitempty,oneof=M F Other male female other"`
	State         string             `json:"state,omitempty" bson:"state,omitempty"`
	StreetAddress string             `json:"street_address,omitempty" bson:"street_address,omitempty"`
	PostalCode    string             `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	City          string             `json:"city,omitempty" bson:"city,omitempty"`
	Country       string             `json:"country,omitempty" bson:"country,omitempty"`
	Latitude      *float64           `json:"latitude,omitempty" bson:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64           `json:"longitude,omitempty" bson:"longitude,omitempty" validate:"omitempty,longitude"`
	TrafficSource string             `json:"traffic_source,omitempty" bson:"traffic_source,omitempty" validate:"omitempty,oneof=Search Email Social Direct Referral Organic Display Facebook"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// Estados válidos de una orden
const (
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderComplete   = "Complete"
	OrderCancelled  = "Cancelled"
	OrderReturned   = "Returned"
)

// Order es la cabecera de una orden
type Order struct {
	ObjectID    primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	OrderID     string             `json:"order_id" bson:"order_id" validate:"required"`
	UserID      string             `json:"user_id" bson:"user_id" validate:"required"`
	Status      string             `json:"status" bson:"status" validate:"required,oneof=Processing Shipped Complete Cancelled Returned"`
	Gender      string             `json:"gender,omitempty" bson:"gender,omitempty" validate:"omitempty,oneof=M F Other male female other"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at" validate:"required"`
	ReturnedAt  *time.Time         `json:"returned_at,omitempty" bson:"returned_at,omitempty"`
	ShippedAt   *time.Time         `json:"shipped_at,omitempty" bson:"shipped_at,omitempty"`
	DeliveredAt *time.Time         `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
	NumOfItem   int                `json:"num_of_item" bson:"num_of_item" validate:"gte=1"`
}

// OrderItem es una línea de orden
type OrderItem struct {
	ObjectID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID              string             `json:"id" bson:"id" validate:"required"`
	OrderID         string             `json:"order_id" bson:"order_id" validate:"required"`
	UserID          string             `json:"user_id" bson:"user_id"`
	ProductID       string             `json:"product_id" bson:"product_id" validate:"required"`
	InventoryItemID string             `json:"inventory_item_id" bson:"inventory_item_id"`
	Status          string             `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	ShippedAt       *time.Time         `json:"shipped_at,omitempty" bson:"shipped_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
	ReturnedAt      *time.Time         `json:"returned_at,omitempty" bson:"returned_at,omitempty"`
}

// InventoryItem es una unidad física de un producto
type InventoryItem struct {
	ObjectID                    primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID                          string             `json:"id" bson:"id" validate:"required"`
	ProductID                   string             `json:"product_id" bson:"product_id" validate:"required"`
	CreatedAt                   time.Time          `json:"created_at" bson:"created_at"`
	SoldAt                      *time.Time         `json:"sold_at,omitempty" bson:"sold_at,omitempty"`
	Cost                        float64            `json:"cost" bson:"cost" validate:"gte=0"`
	ProductCategory             string             `json:"product_category" bson:"product_category"`
	ProductName                 string             `json:"product_name" bson:"product_name"`
	ProductBrand                string             `json:"product_brand" bson:"product_brand"`
	ProductRetailPrice          float64            `json:"product_retail_price" bson:"product_retail_price" validate:"gte=0"`
	ProductDepartment           string             `json:"product_department" bson:"product_department"`
	ProductSKU                  string             `json:"product_sku" bson:"product_sku"`
	ProductDistributionCenterID string             `json:"product_distribution_center_id" bson:"product_distribution_center_id"`
}

// DistributionCenter es un centro de distribución
type DistributionCenter struct {
	ObjectID  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID        string             `json:"id" bson:"id" validate:"required"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Latitude  float64            `json:"latitude" bson:"latitude" validate:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude" validate:"longitude"`
}
