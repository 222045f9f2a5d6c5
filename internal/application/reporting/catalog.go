package reporting

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

// ProductCatalog carga productos activos y sus variantes (grades).
// Sin reintentos: la política de reintento pertenece a la fuente.
type ProductCatalog struct {
	repo repository.CatalogRepository
}

// NewProductCatalog construye el catálogo sobre el repositorio de una sesión.
func NewProductCatalog(repo repository.CatalogRepository) *ProductCatalog {
	return &ProductCatalog{repo: repo}
}

// LoadProducts devuelve los productos activos ordenados por ID.
func (c *ProductCatalog) LoadProducts(ctx context.Context) ([]entity.Product, []entity.IntegrityWarning, error) {
	products, warnings, err := c.repo.ListProducts(ctx)
	if err != nil {
		return nil, nil, domain.NewDataAccessError("catalog.LoadProducts", err)
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, warnings, nil
}

// LoadGrades devuelve las variantes de un producto ordenadas por código.
func (c *ProductCatalog) LoadGrades(ctx context.Context, productID int64) ([]entity.GradeVariant, error) {
	grades, err := c.repo.ListGrades(ctx, productID)
	if err != nil {
		return nil, domain.NewDataAccessError("catalog.LoadGrades", err)
	}
	sortVariants(grades)
	return grades, nil
}

// LoadAllGrades agrupa todas las variantes por producto en una sola consulta.
func (c *ProductCatalog) LoadAllGrades(ctx context.Context) (map[int64][]entity.GradeVariant, error) {
	grades, err := c.repo.ListAllGrades(ctx)
	if err != nil {
		return nil, domain.NewDataAccessError("catalog.LoadAllGrades", err)
	}
	byProduct := make(map[int64][]entity.GradeVariant)
	for _, g := range grades {
		byProduct[g.ProductID] = append(byProduct[g.ProductID], g)
	}
	for id := range byProduct {
		sortVariants(byProduct[id])
	}
	return byProduct, nil
}

const gradesSource = "product_grades"

// knownProducts indexa los IDs del catálogo activo.
func knownProducts(products []entity.Product) map[int64]struct{} {
	known := make(map[int64]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	return known
}

// orphanVariants advierte una vez por variante cuyo producto no está en el catálogo activo.
func orphanVariants(grades map[int64][]entity.GradeVariant, known map[int64]struct{}) []entity.IntegrityWarning {
	ids := make([]int64, 0, len(grades))
	for id := range grades {
		if _, ok := known[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var warnings []entity.IntegrityWarning
	for _, id := range ids {
		for _, v := range grades[id] {
			warnings = append(warnings, entity.IntegrityWarning{
				Kind:      entity.WarningUnknownProduct,
				Source:    gradesSource,
				ProductID: id,
				GradeCode: v.Code,
				Detail:    fmt.Sprintf("variante %q de un producto fuera del catálogo activo", v.Code),
			})
		}
	}
	return warnings
}

func sortVariants(vs []entity.GradeVariant) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Code < vs[j].Code })
}
