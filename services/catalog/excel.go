package catalog

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var sheetHeaders = []string{
	"ID", "Name", "Description", "Price", "StockQuantity", "Status", "CreatedAt", "UpdatedAt",
}

type ImportResult struct {
	Created int `json:"created_count"`
	Updated int `json:"updated_count"`
	Skipped int `json:"skipped_count"`
}

// ExportXLSX writes the whole catalog as a single "Products" sheet.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return apperrors.Classify(err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range sheetHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(string(p.Status))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

// ImportXLSX upserts products from the first sheet. Rows carrying an existing ID
// update that product, other rows create one. Stock goes through the same
// replacement rule as SetStock; rows with a missing name, a malformed or negative
// price, or a negative stock are skipped.
func (s *Service) ImportXLSX(ctx context.Context, r io.ReaderAt, size int64) (*ImportResult, error) {
	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, apperrors.Invalid("failed to parse excel file: %v", err)
	}
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return nil, apperrors.Invalid("excel file is empty or missing header row")
	}

	sheet := xlFile.Sheets[0]
	result := &ImportResult{}

	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		if row == nil || len(row.Cells) < 5 {
			result.Skipped++
			continue
		}

		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, priceErr := decimal.NewFromString(get(3))
		stock, stockErr := strconv.Atoi(get(4))
		if name == "" || priceErr != nil || price.IsNegative() || stockErr != nil || stock < 0 {
			result.Skipped++
			continue
		}
		status := models.ProductStatusActive
		if raw := get(5); raw != "" {
			parsed, err := models.ParseProductStatus(raw)
			if err != nil {
				result.Skipped++
				continue
			}
			status = parsed
		}

		var id uint64
		if idStr := get(0); idStr != "" {
			id, _ = strconv.ParseUint(idStr, 10, 64)
		}

		created, err := s.upsertRow(ctx, uint(id), name, get(2), price, stock, status)
		switch {
		case err != nil:
			s.logger.Warn("Skipping excel row", zap.Int("row", i+1), zap.Error(err))
			result.Skipped++
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}

	s.logger.Info("Excel import completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *Service) upsertRow(ctx context.Context, id uint, name, description string, price decimal.Decimal, stock int, status models.ProductStatus) (bool, error) {
	created := false
	err := database.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		var product models.Product
		if id != 0 {
			err := database.ForUpdate(tx).First(&product, id).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		product.Name = name
		product.Description = description
		product.Price = price
		product.Status = status
		if err := product.ApplyStock(stock); err != nil {
			return apperrors.Invalid("%v", err)
		}

		if product.ID == 0 {
			created = true
			return tx.Create(&product).Error
		}
		return tx.Model(&product).Updates(map[string]any{
			"name":           product.Name,
			"description":    product.Description,
			"price":          product.Price,
			"status":         product.Status,
			"stock_quantity": product.StockQuantity,
		}).Error
	})
	return created, err
}
