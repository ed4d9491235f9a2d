package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ProductKey clave compuesta de un producto con stock: categoría + nombre + versión.
// Se trata como una clave opaca; dos filas del ledger de una empresa nunca comparten clave.
type ProductKey struct {
	Category string
	ItemName string
	Version  string
}

// NewProductKey construye la clave normalizada (trim + NFC) para que textos
// visualmente idénticos apunten a la misma fila.
func NewProductKey(category, itemName, version string) ProductKey {
	return ProductKey{
		Category: normalizeKeyPart(category),
		ItemName: normalizeKeyPart(itemName),
		Version:  normalizeKeyPart(version),
	}
}

func normalizeKeyPart(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Valid indica si las tres partes de la clave están presentes.
func (k ProductKey) Valid() bool {
	return k.Category != "" && k.ItemName != "" && k.Version != ""
}

// String forma opaca category|item|version (logs y nombres de lock).
func (k ProductKey) String() string {
	return k.Category + "|" + k.ItemName + "|" + k.Version
}

// Less orden total de claves; se usa para bloquear filas siempre en el mismo orden.
func (k ProductKey) Less(o ProductKey) bool {
	if k.Category != o.Category {
		return k.Category < o.Category
	}
	if k.ItemName != o.ItemName {
		return k.ItemName < o.ItemName
	}
	return k.Version < o.Version
}
