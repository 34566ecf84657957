package catalog

import (
	"context"
	"math"
	"sort"
	"strings"
)

// Query exposes the read-only catalog and order lookups the bot consumes.
// Persistence of these entities lives elsewhere; the bot never writes them.
type Query interface {
	CompaniesWithinRadius(ctx context.Context, lat, lon, radiusKm float64, filter ListFilter) (Page[Company], error)
	Categories(ctx context.Context, filter ListFilter) (Page[Category], error)
	Promotions(ctx context.Context, filter ListFilter) (Page[Promotion], error)
	Coupons(ctx context.Context, filter ListFilter) (Page[Coupon], error)
	MenuItems(ctx context.Context, filter MenuItemFilter) (Page[MenuItem], error)
	Tags(ctx context.Context, filter TagFilter) (Page[Tag], error)
	Orders(ctx context.Context, filter OrderFilter) (Page[Order], error)
}

// MemoryStore implements Query with in-memory slices, suitable for MVP and tests.
type MemoryStore struct {
	companies  []Company
	categories []Category
	items      []MenuItem
	tags       []Tag
	promotions []Promotion
	coupons    []Coupon
	orders     []Order
}

// Dataset aggregates the entities a MemoryStore is preloaded with.
type Dataset struct {
	Companies  []Company
	Categories []Category
	MenuItems  []MenuItem
	Tags       []Tag
	Promotions []Promotion
	Coupons    []Coupon
	Orders     []Order
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied dataset.
func NewMemoryStore(data Dataset) *MemoryStore {
	return &MemoryStore{
		companies:  append([]Company(nil), data.Companies...),
		categories: append([]Category(nil), data.Categories...),
		items:      append([]MenuItem(nil), data.MenuItems...),
		tags:       append([]Tag(nil), data.Tags...),
		promotions: append([]Promotion(nil), data.Promotions...),
		coupons:    append([]Coupon(nil), data.Coupons...),
		orders:     append([]Order(nil), data.Orders...),
	}
}

func (s *MemoryStore) CompaniesWithinRadius(_ context.Context, lat, lon, radiusKm float64, filter ListFilter) (Page[Company], error) {
	type scored struct {
		company Company
		dist    float64
	}
	var matched []scored
	for _, c := range s.companies {
		if !c.IsActive {
			continue
		}
		d := haversineKm(lat, lon, c.Latitude, c.Longitude)
		if d <= radiusKm {
			matched = append(matched, scored{company: c, dist: d})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].dist < matched[j].dist })

	companies := make([]Company, len(matched))
	for i, m := range matched {
		companies[i] = m.company
	}
	return paginate(companies, filter.Page, filter.PageSize), nil
}

func (s *MemoryStore) Categories(_ context.Context, filter ListFilter) (Page[Category], error) {
	var matched []Category
	for _, c := range s.categories {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, c)
	}
	sortByName := func(i, j int) bool { return matched[i].Name < matched[j].Name }
	applySort(matched, filter, sortByName)
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func (s *MemoryStore) Promotions(_ context.Context, filter ListFilter) (Page[Promotion], error) {
	var matched []Promotion
	for _, p := range s.promotions {
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, p)
	}
	byEndDate := func(i, j int) bool { return matched[i].EndsAt.Before(matched[j].EndsAt) }
	applySort(matched, filter, byEndDate)
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func (s *MemoryStore) Coupons(_ context.Context, filter ListFilter) (Page[Coupon], error) {
	var matched []Coupon
	for _, c := range s.coupons {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, c)
	}
	byEndDate := func(i, j int) bool { return matched[i].EndsAt.Before(matched[j].EndsAt) }
	applySort(matched, filter, byEndDate)
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func (s *MemoryStore) MenuItems(_ context.Context, filter MenuItemFilter) (Page[MenuItem], error) {
	var matched []MenuItem
	for _, item := range s.items {
		if filter.IsAvailable != nil && item.IsAvailable != *filter.IsAvailable {
			continue
		}
		if len(filter.CategoryIDs) > 0 && !containsString(filter.CategoryIDs, item.CategoryID) {
			continue
		}
		if filter.Tag != "" && !containsFold(item.Tags, filter.Tag) {
			continue
		}
		matched = append(matched, item)
	}
	sortByName := func(i, j int) bool { return matched[i].Name < matched[j].Name }
	applySort(matched, filter.ListFilter, sortByName)
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func (s *MemoryStore) Tags(_ context.Context, filter TagFilter) (Page[Tag], error) {
	var matched []Tag
	for _, t := range s.tags {
		if filter.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Name)) {
			continue
		}
		matched = append(matched, t)
	}
	sortByName := func(i, j int) bool { return matched[i].Name < matched[j].Name }
	applySort(matched, filter.ListFilter, sortByName)
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func (s *MemoryStore) Orders(_ context.Context, filter OrderFilter) (Page[Order], error) {
	var matched []Order
	for _, o := range s.orders {
		if filter.CustomerPhone != "" && o.CustomerPhone != filter.CustomerPhone {
			continue
		}
		if filter.Status != "" && !strings.EqualFold(o.Status, filter.Status) {
			continue
		}
		matched = append(matched, o)
	}
	// Newest first so "your latest orders" reads naturally.
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, filter.Page, filter.PageSize), nil
}

func applySort[T any](items []T, filter ListFilter, less func(i, j int) bool) {
	sort.Slice(items, less)
	if strings.EqualFold(filter.SortOrder, "desc") {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
}

func paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:      append([]T(nil), items[start:end]...),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(items),
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
