package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ecommerce-catalog/internal/models"
)

// containsRegex arma un $regex de subcadena sin distinguir mayúsculas
func containsRegex(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(term)), "$options": "i"}
}

// exactRegex arma un $regex de igualdad sin distinguir mayúsculas,
// tolerando espacios alrededor del valor guardado
func exactRegex(term string) bson.M {
	return bson.M{"$regex": `^\s*` + regexp.QuoteMeta(strings.TrimSpace(term)) + `\s*$`, "$options": "i"}
}

// BuildProductFilter traduce los filtros del listado a un filtro de Mongo
func BuildProductFilter(f models.ProductFilter) bson.M {
	var clauses []bson.M

	if strings.TrimSpace(f.Category) != "" {
		clauses = append(clauses, bson.M{"category": containsRegex(f.Category)})
	}
	if strings.TrimSpace(f.Brand) != "" {
		clauses = append(clauses, bson.M{"brand": containsRegex(f.Brand)})
	}

	// Departamento: relación canónica con respaldo al string legado
	if strings.TrimSpace(f.Department) != "" {
		legacy := bson.M{"department": containsRegex(f.Department)}
		if len(f.DepartmentIDs) > 0 {
			clauses = append(clauses, bson.M{"$or": bson.A{
				bson.M{"department_id": bson.M{"$in": f.DepartmentIDs}},
				bson.M{"department_id": bson.M{"$exists": false}, "department": containsRegex(f.Department)},
			}})
		} else {
			clauses = append(clauses, legacy)
		}
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		clauses = append(clauses, bson.M{"retail_price": price})
	}

	if strings.TrimSpace(f.Search) != "" {
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": containsRegex(f.Search)},
			bson.M{"category": containsRegex(f.Search)},
			bson.M{"brand": containsRegex(f.Search)},
		}})
	}

	if f.Scope != nil {
		clauses = append(clauses, ScopeFilter(*f.Scope))
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// ScopeFilter selecciona los productos de un departamento durante la transición
func ScopeFilter(scope models.DepartmentScope) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"department_id": scope.ID},
		bson.M{"department_id": bson.M{"$exists": false}, "department": exactRegex(scope.Name)},
	}}
}

func groupStatsPipeline(field string, limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$retail_price"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "key", Value: "$_id"},
			{Key: "count", Value: 1},
			{Key: "avgPrice", Value: bson.D{{Key: "$round", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$avgPrice", 0}}}, 2}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "key", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return pipeline
}

const topBrandsLimit = 5

func departmentStatsPipeline(scope models.DepartmentScope) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: ScopeFilter(scope)}},
		{{Key: "$facet", Value: bson.D{
			{Key: "stats", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "productCount", Value: bson.D{{Key: "$sum", Value: 1}}},
					{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$retail_price"}}},
					{Key: "minPrice", Value: bson.D{{Key: "$min", Value: "$retail_price"}}},
					{Key: "maxPrice", Value: bson.D{{Key: "$max", Value: "$retail_price"}}},
				}}},
			}},
			{Key: "topBrands", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$brand"},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
				bson.D{{Key: "$limit", Value: topBrandsLimit}},
			}},
		}}},
	}
}

// departmentSortStage mapea el orden pedido a un $sort estable
func departmentSortStage(sort models.DepartmentSort) bson.D {
	switch sort {
	case models.SortByNameDesc:
		return bson.D{{Key: "name", Value: -1}}
	case models.SortByProductCount:
		return bson.D{{Key: "product_count", Value: 1}, {Key: "name", Value: 1}}
	case models.SortByProductCountDesc:
		return bson.D{{Key: "product_count", Value: -1}, {Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "name", Value: 1}}
	}
}

func departmentListPipeline(sort models.DepartmentSort) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ProductsCollection},
			{Key: "let", Value: bson.D{{Key: "deptId", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$department_id", "$$deptId"}},
				}}}}},
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
					{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$retail_price"}}},
				}}},
			}},
			{Key: "as", Value: "stats"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "product_count", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$stats.count", 0}}}, 0,
			}}}},
			{Key: "avgPrice", Value: bson.D{{Key: "$round", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{
					bson.D{{Key: "$arrayElemAt", Value: bson.A{"$stats.avgPrice", 0}}}, 0,
				}}}, 2,
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "stats", Value: 0}}}},
		{{Key: "$sort", Value: departmentSortStage(sort)}},
	}
}
