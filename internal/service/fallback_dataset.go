package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/traits"
)

// FallbackDataset es la tabla curada categoria -> nombre -> rasgos que se carga
// una sola vez al arrancar. Su ausencia no es fatal: el resolver salta el paso.
type FallbackDataset struct {
	space   *traits.Space
	entries map[string][]fallbackEntry
}

type fallbackEntry struct {
	key    string
	vector traits.Vector
}

// LoadFallbackDataset lee el archivo JSON empaquetado:
// {"song": {"bohemian rhapsody": {"humor": 0.4, ...}}, ...}
func LoadFallbackDataset(path string, space *traits.Space) (*FallbackDataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback dataset: %w", err)
	}

	var parsed map[string]map[string]map[string]float64
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse fallback dataset: %w", err)
	}

	ds := &FallbackDataset{
		space:   space,
		entries: make(map[string][]fallbackEntry, len(parsed)),
	}
	for category, names := range parsed {
		category = strings.ToLower(strings.TrimSpace(category))
		list := make([]fallbackEntry, 0, len(names))
		for name, traitMap := range names {
			list = append(list, fallbackEntry{
				key:    domain.NormalizeEntityName(name),
				vector: space.FromMap(traitMap),
			})
		}
		// Orden estable de claves: el match fuzzy es "primer match gana",
		// asi que la iteracion tiene que ser determinista.
		sort.Slice(list, func(i, j int) bool { return list[i].key < list[j].key })
		ds.entries[category] = list
	}
	return ds, nil
}

// Len devuelve el total de entradas cargadas.
func (d *FallbackDataset) Len() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, list := range d.entries {
		total += len(list)
	}
	return total
}

// Lookup busca primero match exacto y despues fuzzy por contencion de substring
// en ambas direcciones. Primer match por orden de iteracion gana; es un scan
// lineal O(n) deliberado, no un ranking por distancia.
func (d *FallbackDataset) Lookup(category, normalizedName string) (traits.Vector, bool) {
	if d == nil || normalizedName == "" {
		return nil, false
	}
	list, ok := d.entries[category]
	if !ok {
		return nil, false
	}

	for _, e := range list {
		if e.key == normalizedName {
			return e.vector, true
		}
	}
	for _, e := range list {
		if strings.Contains(normalizedName, e.key) || strings.Contains(e.key, normalizedName) {
			return e.vector, true
		}
	}
	return nil, false
}
