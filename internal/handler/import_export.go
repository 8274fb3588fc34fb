package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"daybook/internal/models"
	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportExportHandler downloads the whole ledger, hidden entries included.
type ImportExportHandler struct {
	ledger *service.LedgerService
	clock  service.Clock
	log    *zap.Logger
}

func NewImportExportHandler(ledger *service.LedgerService, clock service.Clock, log *zap.Logger) *ImportExportHandler {
	return &ImportExportHandler{ledger: ledger, clock: clock, log: log}
}

var exportHeaders = []string{
	"ID", "Type", "Date", "Time", "Mode", "Account", "Amount", "Purpose", "Visible",
	"Cash", "IPPB", "Jio", "SBI",
}

func exportRow(e *models.LedgerEntry) []string {
	return []string{
		strconv.FormatUint(uint64(e.ID), 10),
		string(e.Direction),
		e.DisplayDate,
		e.Time,
		string(e.Method),
		string(e.Account),
		e.Amount.StringFixed(2),
		e.Purpose,
		strconv.FormatBool(e.Visible),
		e.Balances.Cash.StringFixed(2),
		e.Balances.IPPB.StringFixed(2),
		e.Balances.Jio.StringFixed(2),
		e.Balances.SBI.StringFixed(2),
	}
}

const purposeCol = 7

// escapeFormula keeps spreadsheet apps from evaluating free text as a formula.
func escapeFormula(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func (h *ImportExportHandler) filename(ext string) string {
	return fmt.Sprintf("ledger_%s.%s", h.clock().Format("20060102"), ext)
}

// ExportCSV writes the ledger as CSV.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	entries, err := h.ledger.AllEntries(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename("csv")))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeaders)
	for i := range entries {
		row := exportRow(&entries[i])
		row[purposeCol] = escapeFormula(row[purposeCol])
		_ = w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.log.Warn("export csv", zap.Error(err))
	}
}

// ExportXLSX writes the ledger as a single-sheet workbook. Amount and
// balance columns are numeric cells.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	entries, err := h.ledger.AllEntries(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Ledger"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		h.log.Error("build xlsx", zap.Error(err))
		util.Text(c, http.StatusInternalServerError, "Export failed")
		return
	}

	for i, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	numeric := map[int]bool{6: true, 9: true, 10: true, 11: true, 12: true}
	for r := range entries {
		row := exportRow(&entries[r])
		for col, val := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if numeric[col] {
				n, _ := strconv.ParseFloat(val, 64)
				_ = f.SetCellFloat(sheet, cell, n, 2, 64)
				continue
			}
			_ = f.SetCellValue(sheet, cell, val)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "E", "E", 14)
	_ = f.SetColWidth(sheet, "H", "H", 30)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename("xlsx")))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.log.Warn("export xlsx", zap.Error(err))
	}
}
