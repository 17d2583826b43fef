// seed_catalog genera un script SQL para poblar categorías y productos a partir de dos CSV.
//
// Uso: go run ./cmd/seed_catalog categorias.csv productos.csv [salida.sql]
// Los CSV pueden venir en UTF-8 o ISO-8859-1 (exportaciones de Excel en Windows).
// Por defecto escribe seed_catalog.sql en la raíz del módulo.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Uso: seed_catalog categorias.csv productos.csv [salida.sql]")
		os.Exit(2)
	}
	outPath := filepath.Join(findModuleRoot(), "seed_catalog.sql")
	if len(os.Args) > 3 {
		outPath = os.Args[3]
	}

	categories, err := readFile(os.Args[1], parseCategories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Categorías: %v\n", err)
		os.Exit(1)
	}
	products, err := readFile(os.Args[2], parseProducts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Productos: %v\n", err)
		os.Exit(1)
	}
	if err := checkReferences(categories, products); err != nil {
		fmt.Fprintf(os.Stderr, "Validación: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, categories, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos\n", outPath, len(categories), len(products))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
