package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product representa un producto en el catálogo
type Product struct {
	ObjectID             primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	ID                   string              `json:"id" bson:"id" validate:"required"`
	SKU                  string              `json:"sku" bson:"sku" validate:"required"`
	Name                 string              `json:"name" bson:"name" validate:"required"`
	Category             string              `json:"category" bson:"category" validate:"required"`
	Brand                string              `json:"brand" bson:"brand" validate:"required"`
	Cost                 float64             `json:"cost" bson:"cost" validate:"gte=0"`
	RetailPrice          float64             `json:"retail_price" bson:"retail_price" validate:"gte=0"`
	Department           string              `json:"department,omitempty" bson:"department,omitempty"`
	DepartmentID         *primitive.ObjectID `json:"department_id,omitempty" bson:"department_id,omitempty"`
	DistributionCenterID string              `json:"distribution_center_id" bson:"distribution_center_id" validate:"required"`
	CreatedAt            time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" bson:"updated_at"`

	// Solo en respuestas, no se persiste
	DepartmentInfo *DepartmentRef `json:"departmentInfo,omitempty" bson:"-"`
}

// ProductDetail agrega los campos derivados del detalle
type ProductDetail struct {
	Product
	ProfitMargin float64 `json:"profitMargin"`
	// nil cuando el costo es 0
	ProfitPercentage *float64 `json:"profitPercentage"`
}

// ProductFilter agrupa los filtros del listado
type ProductFilter struct {
	Category   string
	Brand      string
	Department string
	// IDs de departamentos canónicos que coinciden con Department
	DepartmentIDs []primitive.ObjectID
	MinPrice      *float64
	MaxPrice      *float64
	Search        string
	Scope         *DepartmentScope
}

// DepartmentScope limita la consulta a un departamento, con respaldo al campo legado
type DepartmentScope struct {
	ID   primitive.ObjectID
	Name string
}

// SortOrder indica la dirección del ordenamiento
type SortOrder int

const (
	Asc  SortOrder = 1
	Desc SortOrder = -1
)

// FindOptions controla paginación y orden de una búsqueda
type FindOptions struct {
	Skip   int64
	Limit  int64
	SortBy string
	Order  SortOrder
}

// GroupStat es una fila de resumen por categoría o marca
type GroupStat struct {
	Key      string  `json:"-" bson:"key"`
	Count    int64   `json:"count" bson:"count"`
	AvgPrice float64 `json:"avgPrice" bson:"avgPrice"`
}
