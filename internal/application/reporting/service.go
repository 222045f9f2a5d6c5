package reporting

import "github.com/jhoicas/Inventario-reportes/internal/domain/repository"

// Service agrupa las cuatro operaciones de alto nivel sobre una misma fuente.
// Las operaciones no comparten estado: cada llamada adquiere su propia sesión.
type Service struct {
	Period    *PeriodReportBuilder
	Grades    *GradeStockAnalyzer
	Available *AvailableProductFilter
	Dump      *DumpGenerator
}

// NewService construye los casos de uso.
func NewService(ds repository.DataSource) *Service {
	return &Service{
		Period:    NewPeriodReportBuilder(ds),
		Grades:    NewGradeStockAnalyzer(ds),
		Available: NewAvailableProductFilter(ds),
		Dump:      NewDumpGenerator(ds),
	}
}
