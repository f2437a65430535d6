package traits

import (
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// Neutral es el valor por defecto cuando falta informacion de un rasgo.
const NeutralValue = 0.5

// DefaultNames define el esquema canonico de rasgos, en orden posicional.
// Cambiar esta lista invalida todos los mappings y personajes persistidos.
var DefaultNames = []string{
	"introversion", "humor", "bravery", "loyalty", "ambition",
	"compassion", "cunning", "responsibility", "sarcasm", "optimism",
}

// Space fija el conjunto ordenado de dimensiones de rasgos.
// Todo productor de vectores emite exactamente Len() valores en este orden.
type Space struct {
	names []string
	index map[string]int
}

// NewSpace construye un Space a partir de una lista ordenada de nombres.
func NewSpace(names []string) (*Space, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("trait space: empty name list")
	}
	idx := make(map[string]int, len(names))
	clean := make([]string, 0, len(names))
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			return nil, fmt.Errorf("trait space: blank name at position %d", i)
		}
		if _, dup := idx[n]; dup {
			return nil, fmt.Errorf("trait space: duplicate name %q", n)
		}
		idx[n] = len(clean)
		clean = append(clean, n)
	}
	return &Space{names: clean, index: idx}, nil
}

// DefaultSpace devuelve el espacio canonico de 10 rasgos.
func DefaultSpace() *Space {
	s, err := NewSpace(DefaultNames)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Space) Len() int { return len(s.names) }

// Names devuelve una copia de la lista ordenada de rasgos.
func (s *Space) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Neutral devuelve un vector con 0.5 en todas las dimensiones.
func (s *Space) Neutral() Vector {
	v := make(Vector, len(s.names))
	for i := range v {
		v[i] = NeutralValue
	}
	return v
}

// FromMap es el unico punto donde un mapa de rasgos se convierte a vector:
// claves faltantes quedan en 0.5 y los valores se recortan a [0,1].
func (s *Space) FromMap(m map[string]float64) Vector {
	v := s.Neutral()
	for name, val := range m {
		i, ok := s.index[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		v[i] = clamp01(val)
	}
	return v
}

// MissingKeys devuelve los rasgos del espacio ausentes en el mapa.
func (s *Space) MissingKeys(m map[string]float64) []string {
	var missing []string
	for _, name := range s.names {
		if _, ok := m[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ToMap convierte un vector a un mapa nombre -> valor.
func (s *Space) ToMap(v Vector) map[string]float64 {
	m := make(map[string]float64, len(s.names))
	for i, name := range s.names {
		if i < len(v) {
			m[name] = v[i]
		}
	}
	return m
}

// Vector es una secuencia ordenada de floats alineada al Space.
type Vector []float64

// ToPg convierte el vector a la representacion float32 de pgvector.
func (v Vector) ToPg() pgvector.Vector {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return pgvector.NewVector(out)
}

// FromPg reconstruye un Vector desde una columna pgvector.
func FromPg(pv pgvector.Vector) Vector {
	slice := pv.Slice()
	out := make(Vector, len(slice))
	for i, f := range slice {
		out[i] = float64(f)
	}
	return out
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
