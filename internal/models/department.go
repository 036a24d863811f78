package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department es la agrupación canónica de productos
type Department struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description" bson:"description"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DepartmentRef es la vista reducida que acompaña a un producto
type DepartmentRef struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
}

// Ref devuelve la referencia reducida del departamento
func (d Department) Ref() *DepartmentRef {
	return &DepartmentRef{ID: d.ID, Name: d.Name, Description: d.Description}
}

// DepartmentSummary es una fila del listado de departamentos
type DepartmentSummary struct {
	Department   `bson:",inline"`
	ProductCount *int64   `json:"product_count,omitempty" bson:"product_count,omitempty"`
	AvgPrice     *float64 `json:"avgPrice,omitempty" bson:"avgPrice,omitempty"`
}

// BrandCount es una marca con su cantidad de productos
type BrandCount struct {
	Brand string `json:"brand" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// DepartmentStats son las estadísticas de precio de un departamento
type DepartmentStats struct {
	ProductCount int64        `json:"productCount" bson:"productCount"`
	AvgPrice     float64      `json:"avgPrice" bson:"avgPrice"`
	MinPrice     float64      `json:"minPrice" bson:"minPrice"`
	MaxPrice     float64      `json:"maxPrice" bson:"maxPrice"`
	TopBrands    []BrandCount `json:"topBrands" bson:"topBrands"`
}

// DepartmentDetail combina el departamento con sus estadísticas
type DepartmentDetail struct {
	Department
	DepartmentStats
}

// DepartmentSort enumera los órdenes del listado
type DepartmentSort string

const (
	SortByName             DepartmentSort = "name"
	SortByNameDesc         DepartmentSort = "-name"
	SortByProductCount     DepartmentSort = "product_count"
	SortByProductCountDesc DepartmentSort = "-product_count"
)

// Valid indica si el orden es conocido
func (s DepartmentSort) Valid() bool {
	switch s {
	case SortByName, SortByNameDesc, SortByProductCount, SortByProductCountDesc:
		return true
	}
	return false
}

// DepartmentAssignment asocia un producto con su departamento canónico
type DepartmentAssignment struct {
	ProductID    primitive.ObjectID
	DepartmentID primitive.ObjectID
}

// MigrationResult resume una corrida de la migración de departamentos
type MigrationResult struct {
	DepartmentsFound            int   `json:"departmentsFound"`
	DepartmentsCreated          int   `json:"departmentsCreated"`
	DepartmentsExisting         int   `json:"departmentsExisting"`
	ProductsUpdated             int64 `json:"productsUpdated"`
	Batches                     int   `json:"batches"`
	ProductsWithDepartmentID    int64 `json:"productsWithDepartmentId"`
	ProductsWithoutDepartmentID int64 `json:"productsWithoutDepartmentId"`
	Complete                    bool  `json:"complete"`
	DurationMs                  int64 `json:"durationMs"`
}
