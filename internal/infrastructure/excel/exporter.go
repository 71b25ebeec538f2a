package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

const productsSheet = "Inventario"

var productHeaders = []interface{}{
	"Código", "Descripción", "Unidad", "Departamento",
	"Cantidad actual", "Mínimo", "Máximo", "Movimientos", "Stock bajo", "Importado",
}

// Exporter implementa analytics.ProductExporter generando un .xlsx.
// Los encabezados coinciden con los que Parse reconoce, así el archivo puede reimportarse.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportProducts escribe una fila por producto bajo la fila de encabezados.
func (e *Exporter) ExportProducts(products []dto.ProductResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(productsSheet, "A1", &productHeaders); err != nil {
		return nil, fmt.Errorf("excel: encabezados: %w", err)
	}
	for i, p := range products {
		row := []interface{}{
			p.Code,
			p.Description,
			p.Unit,
			p.Department,
			p.CurrentQuantity.InexactFloat64(),
			optional(p.MinQuantity),
			optional(p.MaxQuantity),
			p.TotalMovements,
			yesNo(p.LowStock),
			yesNo(p.ImportedFromExcel),
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(productsSheet, axis, &row); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(productsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("excel: fijar encabezado: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func optional(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
