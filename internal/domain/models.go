package domain

import (
	"strings"
	"time"

	"whichcharacter/internal/traits"
)

// Categorias de entidades de preferencia que aceptamos mapear.
const (
	CategorySong        = "song"
	CategoryMovie       = "movie"
	CategoryActor       = "actor"
	CategoryAthlete     = "athlete"
	CategoryPersonality = "personality"
)

// Categories lista las categorias validas en orden estable.
var Categories = []string{
	CategorySong,
	CategoryMovie,
	CategoryActor,
	CategoryAthlete,
	CategoryPersonality,
}

// IsValidCategory valida una categoria de entidad.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// NormalizeEntityName produce la clave canonica de cache: minusculas y sin espacios extremos.
func NormalizeEntityName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Question es data de referencia estatica: se carga una vez y es solo lectura.
type Question struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Trait   string   `json:"trait"`
	Options []Option `json:"options"`
}

type Option struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Answer es el par (pregunta, opcion elegida) enviado por el usuario.
type Answer struct {
	QuestionID int    `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// Character es una entrada del catalogo; pertenece a exactamente un universo.
type Character struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Universe    string        `json:"universe"`
	Description string        `json:"description,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	Traits      traits.Vector `json:"traits"`
}

// TraitMapping es el registro persistido (entidad, categoria) -> vector.
// Nunca se actualiza in-place: re-mapear implica borrar e insertar de nuevo.
type TraitMapping struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"` // normalizado: minusculas + trim
	CanonicalTitle string        `json:"canonical_title,omitempty"`
	Category       string        `json:"category"`
	Traits         traits.Vector `json:"traits"`
	Confidence     *float64      `json:"confidence,omitempty"`
	Source         string        `json:"source"` // "oracle" | "fallback"
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

const (
	MappingSourceOracle   = "oracle"
	MappingSourceFallback = "fallback"
)

// MatchResult es una entrada de catalogo puntuada; transitorio, por request.
type MatchResult struct {
	Character  Character `json:"character"`
	Similarity float64   `json:"similarity"`
	Percentage int       `json:"percentage"`
}

// QuizResult es el registro de auditoria de un request de score.
// Solo se agrega, nunca se muta.
type QuizResult struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Universes      []string            `json:"universes"`
	Answers        []Answer            `json:"answers"`
	Preferences    map[string][]string `json:"preferences"`
	QuestionVector traits.Vector       `json:"question_vector"`
	MediaVector    traits.Vector       `json:"media_vector"`
	FinalVector    traits.Vector       `json:"final_vector"`
	TopMatches     []MatchResult       `json:"top_matches"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Feedback captura la opinion de un usuario sobre los rasgos de un personaje.
type Feedback struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SelectedTrait string    `json:"selected_trait"`
	Note          string    `json:"note,omitempty"`
	Consent       bool      `json:"consent"`
	IP            string    `json:"ip,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Stats resume contadores globales para el panel de administracion.
type Stats struct {
	TotalResults    int64    `json:"total_results"`
	TotalFeedback   int64    `json:"total_feedback"`
	TotalMappings   int64    `json:"total_mappings"`
	TotalCharacters int64    `json:"total_characters"`
	TotalQuestions  int64    `json:"total_questions"`
	Universes       []string `json:"universes"`
}
