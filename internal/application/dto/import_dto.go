package dto

// ExcelImportRequest body para POST /api/imports/excel. Sin URL se usa IMPORT_EXCEL_URL.
type ExcelImportRequest struct {
	URL        string `json:"url" validate:"omitempty,url"`
	Department string `json:"department" validate:"omitempty,max=60"`
	Async      bool   `json:"async"` // true: encola la importación en el worker
}

// ImportRowErrorDTO fila que no pudo importarse.
type ImportRowErrorDTO struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExcelImportResultDTO resumen de una importación.
type ExcelImportResultDTO struct {
	Imported int                 `json:"imported"`
	Skipped  int                 `json:"skipped"`
	Errors   int                 `json:"errors"`
	Details  []ImportRowErrorDTO `json:"details,omitempty"`
}

// ExcelPreviewRowDTO fila normalizada de la hoja.
type ExcelPreviewRowDTO struct {
	Row         int    `json:"row"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Department  string `json:"department,omitempty"`
	Exists      bool   `json:"exists"`
}

// ExcelPreviewDTO respuesta de GET /api/imports/excel/preview.
type ExcelPreviewDTO struct {
	Headers []string             `json:"headers"`
	Rows    []ExcelPreviewRowDTO `json:"rows"`
	Total   int                  `json:"total"`
}

// ImportJobResponse respuesta cuando la importación se encola.
type ImportJobResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}
