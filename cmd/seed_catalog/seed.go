package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/catalog-service/internal/domain/catalog"
)

type categoryRow struct {
	ID        string
	Name      string
	ParentID  string
	SortOrder int
}

type productRow struct {
	ID         string
	Name       string
	SKU        string
	CategoryID string
	Price      decimal.Decimal
	Stock      int
	Slug       string
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

// decodeInput convierte a UTF-8 si el contenido no es UTF-8 válido (se asume ISO-8859-1).
func decodeInput(r io.Reader) (io.Reader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()), nil
}

// readRecords lee el CSV (coma o punto y coma) y retorna las filas indexadas por encabezado.
func readRecords(r io.Reader, required ...string) ([]map[string]string, error) {
	in, err := decodeInput(r)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(in)
	first, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	if line, _, _ := bytes.Cut(first, []byte("\n")); bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		cr.Comma = ';'
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(idx))
		for name, i := range idx {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseCategories columnas: id, name, parent_id (opcional), sort_order (opcional).
func parseCategories(r io.Reader) ([]categoryRow, error) {
	records, err := readRecords(r, "id", "name")
	if err != nil {
		return nil, err
	}
	out := make([]categoryRow, 0, len(records))
	for n, rec := range records {
		line := n + 2
		if rec["id"] == "" || rec["name"] == "" {
			return nil, fmt.Errorf("línea %d: id y name son obligatorios", line)
		}
		order := 0
		if s := rec["sort_order"]; s != "" {
			if order, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("línea %d: sort_order inválido %q", line, s)
			}
		}
		if rec["parent_id"] == rec["id"] {
			return nil, fmt.Errorf("línea %d: la categoría %s es su propio padre", line, rec["id"])
		}
		out = append(out, categoryRow{ID: rec["id"], Name: rec["name"], ParentID: rec["parent_id"], SortOrder: order})
	}
	return out, nil
}

// parseProducts columnas: id, name, sku, category_id, price, stock_quantity (opcional).
// El precio admite coma decimal.
func parseProducts(r io.Reader) ([]productRow, error) {
	records, err := readRecords(r, "id", "name", "sku", "category_id", "price")
	if err != nil {
		return nil, err
	}
	out := make([]productRow, 0, len(records))
	for n, rec := range records {
		line := n + 2
		for _, col := range []string{"id", "name", "sku", "category_id", "price"} {
			if rec[col] == "" {
				return nil, fmt.Errorf("línea %d: %s es obligatorio", line, col)
			}
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(rec["price"], ",", "."))
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec["price"])
		}
		stock := 0
		if s := rec["stock_quantity"]; s != "" {
			if stock, err = strconv.Atoi(s); err != nil || stock < 0 {
				return nil, fmt.Errorf("línea %d: stock inválido %q", line, s)
			}
		}
		out = append(out, productRow{
			ID:         rec["id"],
			Name:       rec["name"],
			SKU:        rec["sku"],
			CategoryID: rec["category_id"],
			Price:      price.Round(2),
			Stock:      stock,
			Slug:       catalog.Slugify(rec["name"]),
		})
	}
	return out, nil
}

// checkReferences padres y categorías de producto deben existir en el propio CSV.
func checkReferences(categories []categoryRow, products []productRow) error {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	for _, c := range categories {
		if c.ParentID != "" && !known[c.ParentID] {
			return fmt.Errorf("categoría %s: padre %s inexistente", c.ID, c.ParentID)
		}
	}
	skus := make(map[string]bool, len(products))
	for _, p := range products {
		if !known[p.CategoryID] {
			return fmt.Errorf("producto %s: categoría %s inexistente", p.ID, p.CategoryID)
		}
		if skus[p.SKU] {
			return fmt.Errorf("producto %s: SKU %s repetido", p.ID, p.SKU)
		}
		skus[p.SKU] = true
	}
	return nil
}

// byDepth ordena padres antes que hijos para respetar la FK parent_id.
func byDepth(categories []categoryRow) []categoryRow {
	parent := make(map[string]string, len(categories))
	for _, c := range categories {
		parent[c.ID] = c.ParentID
	}
	depth := func(id string) int {
		d := 0
		for p := parent[id]; p != "" && d <= len(parent); p = parent[p] {
			d++
		}
		return d
	}
	out := append([]categoryRow(nil), categories...)
	sort.SliceStable(out, func(i, j int) bool { return depth(out[i].ID) < depth(out[j].ID) })
	return out
}

func writeSQL(w io.Writer, categories []categoryRow, products []productRow) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("-- Catálogo inicial generado por seed_catalog\n\n")

	if len(categories) > 0 {
		bw.WriteString("-- 1. Categorías (padres primero)\n")
		bw.WriteString("INSERT INTO categories (id, name, parent_id, sort_order) VALUES\n")
		for i, c := range byDepth(categories) {
			fmt.Fprintf(bw, "  ('%s', '%s', %s, %d)", escapeSQL(c.ID), escapeSQL(c.Name), nullable(c.ParentID), c.SortOrder)
			bw.WriteString(sep(i, len(categories)))
		}
		bw.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")
	}

	if len(products) > 0 {
		bw.WriteString("-- 2. Productos\n")
		bw.WriteString("INSERT INTO products (id, name, sku, category_id, price, stock_quantity, slug) VALUES\n")
		for i, p := range products {
			fmt.Fprintf(bw, "  ('%s', '%s', '%s', '%s', %s, %d, '%s')",
				escapeSQL(p.ID), escapeSQL(p.Name), escapeSQL(p.SKU), escapeSQL(p.CategoryID),
				p.Price.StringFixed(2), p.Stock, escapeSQL(p.Slug))
			bw.WriteString(sep(i, len(products)))
		}
		bw.WriteString("ON CONFLICT (id) DO NOTHING;\n")
	}
	return bw.Flush()
}

func sep(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
