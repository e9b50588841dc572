package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"asset-system/internal/dto"
	"asset-system/internal/services"
	"asset-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

var registerHeaders = []string{
	"Asset ID", "Name", "Type", "Branch", "Status", "Testing",
	"Supplier", "Serial No", "AMS Barcode", "Quantity", "Purchase Value",
	"PO Number", "Invoice No", "Warranty Expiry", "Location",
}

func registerRow(a dto.AssetDTO) []interface{} {
	branch := "-"
	if a.Branch != nil {
		branch = a.Branch.Name
	}
	supplier := "-"
	if a.Supplier != nil {
		supplier = a.Supplier.Name
	}
	return []interface{}{
		a.AssetID, a.Name, a.AssetType, branch, a.CurrentStatus, a.TestingStatus,
		supplier, strOrDash(a.SerialNumber), strOrDash(a.AMSBarcode), a.Quantity, floatOrDash(a.PurchaseValue),
		strOrDash(a.PONumber), strOrDash(a.InvoiceNumber), strOrDash(a.WarrantyExpiry), strOrDash(a.Location),
	}
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func floatOrDash(f *float64) interface{} {
	if f == nil {
		return "-"
	}
	return *f
}

// AssetRegister streams the asset register as an XLSX workbook. The
// same query filters as the list endpoint apply; pagination does not.
func (c *ReportController) AssetRegister(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	rows, err := c.reportService.AssetRegister(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, rows)
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.AssetDTO) error {
	f := excelize.NewFile()
	sheet := "Asset Register"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &registerHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "O1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := registerRow(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "F", 16)
	f.SetColWidth(sheet, "G", "I", 22)
	f.SetColWidth(sheet, "L", "O", 18)

	fileName := fmt.Sprintf("asset_register_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
