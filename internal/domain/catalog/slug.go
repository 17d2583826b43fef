package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugReplacer = strings.NewReplacer(" ", "-", "_", "-")

// Slugify deriva el slug de un nombre: minúsculas, espacios y guiones bajos → "-".
// No verifica colisiones; la restricción UNIQUE de la tabla las rechaza.
func Slugify(name string) string {
	return slugReplacer.Replace(cases.Lower(language.Und).String(name))
}
