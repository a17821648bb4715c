package export

import "errors"

// Sentinel errors for spreadsheet export.
var (
	ErrWriteWorkbook = errors.New("write workbook failed")
	ErrNoSheets      = errors.New("nothing to export")
)
