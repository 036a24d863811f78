package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-catalog/internal/apperrors"
	"ecommerce-catalog/internal/models"
)

type fakeProducts struct {
	mu         sync.Mutex
	items      []models.Product
	lastFilter models.ProductFilter
	lastOpts   models.FindOptions
	groupCalls int
}

func newFakeProducts(items ...models.Product) *fakeProducts {
	for i := range items {
		if items[i].ObjectID.IsZero() {
			items[i].ObjectID = primitive.NewObjectID()
		}
	}
	return &fakeProducts{items: items}
}

func (f *fakeProducts) Find(_ context.Context, filter models.ProductFilter, opts models.FindOptions) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	f.lastOpts = opts

	start := int(opts.Skip)
	if start > len(f.items) {
		return []models.Product{}, nil
	}
	end := start + int(opts.Limit)
	if opts.Limit == 0 || end > len(f.items) {
		end = len(f.items)
	}
	return slices.Clone(f.items[start:end]), nil
}

func (f *fakeProducts) Count(context.Context, models.ProductFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

func (f *fakeProducts) FindByNaturalID(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeProducts) FindByObjectID(_ context.Context, oid primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ObjectID == oid {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", oid.Hex(), apperrors.ErrNotFound)
}

func (f *fakeProducts) GroupStats(_ context.Context, field string, limit int) ([]models.GroupStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupCalls++

	sums := map[string]float64{}
	counts := map[string]int64{}
	for _, p := range f.items {
		key := p.Category
		if field == "brand" {
			key = p.Brand
		}
		counts[key]++
		sums[key] += p.RetailPrice
	}

	out := make([]models.GroupStat, 0, len(counts))
	for key, n := range counts {
		out = append(out, models.GroupStat{Key: key, Count: n, AvgPrice: Round2(sums[key] / float64(n))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func inScope(p models.Product, scope models.DepartmentScope) bool {
	if p.DepartmentID != nil {
		return *p.DepartmentID == scope.ID
	}
	return strings.EqualFold(strings.TrimSpace(p.Department), scope.Name)
}

func (f *fakeProducts) DepartmentStats(_ context.Context, scope models.DepartmentScope) (*models.DepartmentStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &models.DepartmentStats{}
	brands := map[string]int64{}
	var sum float64
	for _, p := range f.items {
		if !inScope(p, scope) {
			continue
		}
		if stats.ProductCount == 0 || p.RetailPrice < stats.MinPrice {
			stats.MinPrice = p.RetailPrice
		}
		if p.RetailPrice > stats.MaxPrice {
			stats.MaxPrice = p.RetailPrice
		}
		stats.ProductCount++
		sum += p.RetailPrice
		brands[p.Brand]++
	}
	if stats.ProductCount > 0 {
		stats.AvgPrice = sum / float64(stats.ProductCount)
	}
	for b, n := range brands {
		stats.TopBrands = append(stats.TopBrands, models.BrandCount{Brand: b, Count: n})
	}
	sort.Slice(stats.TopBrands, func(i, j int) bool {
		if stats.TopBrands[i].Count != stats.TopBrands[j].Count {
			return stats.TopBrands[i].Count > stats.TopBrands[j].Count
		}
		return stats.TopBrands[i].Brand < stats.TopBrands[j].Brand
	})
	if len(stats.TopBrands) > 5 {
		stats.TopBrands = stats.TopBrands[:5]
	}
	return stats, nil
}

func (f *fakeProducts) DistinctLegacyDepartments(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, p := range f.items {
		if !slices.Contains(out, p.Department) {
			out = append(out, p.Department)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindUnassignedBatch(_ context.Context, legacyNames []string, after primitive.ObjectID, limit int) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sorted := slices.Clone(f.items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ObjectID.Hex() < sorted[j].ObjectID.Hex() })

	var out []models.Product
	for _, p := range sorted {
		if p.DepartmentID != nil || !slices.Contains(legacyNames, p.Department) {
			continue
		}
		if !after.IsZero() && p.ObjectID.Hex() <= after.Hex() {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProducts) AssignDepartments(_ context.Context, assignments []models.DepartmentAssignment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var modified int64
	for _, a := range assignments {
		for i := range f.items {
			if f.items[i].ObjectID == a.ProductID && f.items[i].DepartmentID == nil {
				id := a.DepartmentID
				f.items[i].DepartmentID = &id
				modified++
			}
		}
	}
	return modified, nil
}

func (f *fakeProducts) CountWithDepartmentID(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.items {
		if p.DepartmentID != nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeProducts) CountMissingDepartmentID(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.items {
		if p.DepartmentID == nil && strings.TrimSpace(p.Department) != "" {
			n++
		}
	}
	return n, nil
}

type fakeDepartments struct {
	mu    sync.Mutex
	items []models.Department
	// simula que otro proceso crea el departamento antes que nosotros
	raceOnCreate bool
	creates      int
	listCalls    int
}

func (f *fakeDepartments) add(name string) models.Department {
	d := models.Department{ID: primitive.NewObjectID(), Name: name, Description: name + " department", IsActive: true}
	f.items = append(f.items, d)
	return d
}

func (f *fakeDepartments) FindByName(_ context.Context, name string) (*models.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.items {
		if d.Name == strings.TrimSpace(name) {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("department %s: %w", name, apperrors.ErrNotFound)
}

func (f *fakeDepartments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.items {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("department %s: %w", id.Hex(), apperrors.ErrNotFound)
}

func (f *fakeDepartments) Create(_ context.Context, dept *models.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raceOnCreate {
		f.raceOnCreate = false
		f.items = append(f.items, models.Department{ID: primitive.NewObjectID(), Name: dept.Name, IsActive: true})
		return fmt.Errorf("department %q: %w", dept.Name, apperrors.ErrDuplicate)
	}
	for _, d := range f.items {
		if d.Name == dept.Name {
			return fmt.Errorf("department %q: %w", dept.Name, apperrors.ErrDuplicate)
		}
	}
	f.creates++
	dept.ID = primitive.NewObjectID()
	f.items = append(f.items, *dept)
	return nil
}

func (f *fakeDepartments) FindIDsByNameMatch(_ context.Context, term string) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []primitive.ObjectID
	for _, d := range f.items {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(strings.TrimSpace(term))) {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}

func (f *fakeDepartments) ListWithStats(_ context.Context, _ bool, _ models.DepartmentSort) ([]models.DepartmentSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]models.DepartmentSummary, 0, len(f.items))
	for _, d := range f.items {
		out = append(out, models.DepartmentSummary{Department: d})
	}
	return out, nil
}
