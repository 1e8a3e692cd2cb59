package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

type fileProduct struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Unit     string   `yaml:"unit"`
	Price    string   `yaml:"price"`
	Keywords []string `yaml:"keywords"`
}

type fileCatalog struct {
	Products []fileProduct `yaml:"products"`
}

// LoadFile reads a catalog from a .yaml/.yml or .xlsx file.
func LoadFile(path string) ([]Product, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}

func loadYAML(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := make([]Product, 0, len(fc.Products))
	for i, fp := range fc.Products {
		p, err := fp.product()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// loadXLSX expects a header row on the first sheet with the columns
// id, name, unit, price, keywords (keywords separated by ";").
func loadXLSX(path string) ([]Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "name", "price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog sheet missing %q column", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]Product, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if cell(row, "id") == "" && cell(row, "name") == "" {
			continue
		}
		fp := fileProduct{
			ID:    cell(row, "id"),
			Name:  cell(row, "name"),
			Unit:  cell(row, "unit"),
			Price: cell(row, "price"),
		}
		for _, kw := range strings.Split(cell(row, "keywords"), ";") {
			if kw = strings.TrimSpace(kw); kw != "" {
				fp.Keywords = append(fp.Keywords, kw)
			}
		}

		p, err := fp.product()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (fp fileProduct) product() (Product, error) {
	price := decimal.Zero
	if s := strings.TrimSpace(fp.Price); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Product{}, fmt.Errorf("bad price %q: %w", fp.Price, err)
		}
		price = d
	}
	return Product{
		ID:       strings.TrimSpace(fp.ID),
		Name:     strings.TrimSpace(fp.Name),
		Unit:     strings.TrimSpace(fp.Unit),
		Price:    price,
		Keywords: fp.Keywords,
	}, nil
}
