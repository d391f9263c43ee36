// Package spreadsheet moves the product catalog in and out of .xlsx files.
package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/tealeg/xlsx"
)

const (
	SheetName   = "Products"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

// Columns is the header row, in order. Import reads by position.
var Columns = []string{
	"ID", "SKU", "Title", "Description", "Category", "Brand",
	"Price", "DiscountPercentage", "Rating", "Stock", "AvailabilityStatus",
	"Weight", "Width", "Height", "Depth",
	"WarrantyInformation", "ShippingInformation", "ReturnPolicy",
	"MinimumOrderQuantity", "Tags", "Images", "Thumbnail",
	"CreatedAt", "UpdatedAt",
}

const (
	colID = iota
	colSKU
	colTitle
	colDescription
	colCategory
	colBrand
	colPrice
	colDiscount
	colRating
	colStock
	colAvailability
	colWeight
	colWidth
	colHeight
	colDepth
	colWarranty
	colShipping
	colReturnPolicy
	colMinOrder
	colTags
	colImages
	colThumbnail
)

// Export writes products as a single-sheet workbook.
func Export(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range Columns {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.SKU)
		row.AddCell().SetString(p.Title)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetString(p.Brand)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetFloat(p.DiscountPercentage)
		row.AddCell().SetFloat(p.Rating)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.AvailabilityStatus)
		row.AddCell().SetFloat(p.Weight)
		row.AddCell().SetFloat(p.Dimensions.Width)
		row.AddCell().SetFloat(p.Dimensions.Height)
		row.AddCell().SetFloat(p.Dimensions.Depth)
		row.AddCell().SetString(p.WarrantyInformation)
		row.AddCell().SetString(p.ShippingInformation)
		row.AddCell().SetString(p.ReturnPolicy)
		row.AddCell().SetInt(p.MinimumOrderQuantity)
		row.AddCell().SetString(strings.Join(p.Tags, ","))
		row.AddCell().SetString(strings.Join(p.Images, ","))
		row.AddCell().SetString(p.Thumbnail)
		row.AddCell().SetString(p.CreatedAt.UTC().Format(timeLayout))
		row.AddCell().SetString(p.UpdatedAt.UTC().Format(timeLayout))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Store is the persistence an import needs.
type Store interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	UpsertBySKU(ctx context.Context, p *models.Product) error
}

// RowError explains why a data row was skipped. Row is 1-based, as
// spreadsheet programs number rows.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Report struct {
	Message string     `json:"message"`
	Created int        `json:"created_count"`
	Updated int        `json:"updated_count"`
	Skipped int        `json:"skipped_count"`
	Errors  []RowError `json:"errors,omitempty"`
}

var (
	ErrEmptyWorkbook = errors.New("workbook is empty or missing header row")
	ErrUnreadable    = errors.New("workbook cannot be read")
)

// Import upserts every data row of the first sheet by SKU. Bad rows are
// skipped and reported; only an unreadable workbook or a store failure
// aborts the import.
func Import(ctx context.Context, r io.ReaderAt, size int64, store Store) (*Report, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, ErrEmptyWorkbook
	}

	sheet := file.Sheets[0]
	report := &Report{Message: "Import completed"}
	skip := func(row int, reason string) {
		report.Skipped++
		report.Errors = append(report.Errors, RowError{Row: row + 1, Reason: reason})
	}

	for i := 1; i < sheet.MaxRow; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := sheet.Rows[i]
		if row == nil || isBlank(row) {
			continue
		}

		p, reason := parseRow(row)
		if reason != "" {
			skip(i, reason)
			continue
		}

		_, err := store.FindBySKU(ctx, p.SKU)
		exists := err == nil
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("look up sku %q: %w", p.SKU, err)
		}

		if err := store.UpsertBySKU(ctx, p); err != nil {
			return nil, fmt.Errorf("upsert sku %q: %w", p.SKU, err)
		}
		if exists {
			report.Updated++
		} else {
			report.Created++
		}
	}
	return report, nil
}

func parseRow(row *xlsx.Row) (*models.Product, string) {
	text := func(i int) string {
		if i < len(row.Cells) {
			return strings.TrimSpace(row.Cells[i].String())
		}
		return ""
	}
	var bad string
	num := func(i int, name string) float64 {
		s := text(i)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && bad == "" {
			bad = name + " is not a number"
		}
		return f
	}

	p := &models.Product{
		SKU:                 text(colSKU),
		Title:               text(colTitle),
		Description:         text(colDescription),
		Category:            text(colCategory),
		Brand:               text(colBrand),
		Price:               num(colPrice, "Price"),
		DiscountPercentage:  num(colDiscount, "DiscountPercentage"),
		Rating:              num(colRating, "Rating"),
		Stock:               int(num(colStock, "Stock")),
		AvailabilityStatus:  text(colAvailability),
		Weight:              num(colWeight, "Weight"),
		WarrantyInformation: text(colWarranty),
		ShippingInformation: text(colShipping),
		ReturnPolicy:        text(colReturnPolicy),
		Tags:                splitList(text(colTags)),
		Images:              splitList(text(colImages)),
		Thumbnail:           text(colThumbnail),
		Dimensions: models.Dimensions{
			Width:  num(colWidth, "Width"),
			Height: num(colHeight, "Height"),
			Depth:  num(colDepth, "Depth"),
		},
		MinimumOrderQuantity: int(num(colMinOrder, "MinimumOrderQuantity")),
		UpdatedAt:            time.Now().UTC(),
	}

	switch {
	case bad != "":
		return nil, bad
	case p.SKU == "":
		return nil, "SKU is required"
	case p.Title == "":
		return nil, "Title is required"
	case p.Category == "":
		return nil, "Category is required"
	case p.Price <= 0:
		return nil, "Price must be positive"
	case p.DiscountPercentage < 0 || p.DiscountPercentage > 100:
		return nil, "DiscountPercentage must be between 0 and 100"
	}

	if p.MinimumOrderQuantity < 1 {
		p.MinimumOrderQuantity = 1
	}
	if p.AvailabilityStatus == "" {
		p.AvailabilityStatus = "Out of Stock"
		if p.Stock > 0 {
			p.AvailabilityStatus = "In Stock"
		}
	}
	if p.Thumbnail == "" && len(p.Images) > 0 {
		p.Thumbnail = p.Images[0]
	}
	return p, ""
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isBlank(row *xlsx.Row) bool {
	for _, c := range row.Cells {
		if strings.TrimSpace(c.String()) != "" {
			return false
		}
	}
	return true
}
