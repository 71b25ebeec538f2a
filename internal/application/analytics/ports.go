package analytics

import "github.com/jhoicas/Almacen-api/internal/application/dto"

// ReportRenderer genera el documento imprimible del reporte (PDF).
type ReportRenderer interface {
	RenderInventoryReport(report *dto.InventoryReportDTO) ([]byte, error)
}

// ProductExporter serializa el catálogo a una hoja de cálculo.
type ProductExporter interface {
	ExportProducts(products []dto.ProductResponse) ([]byte, error)
}
