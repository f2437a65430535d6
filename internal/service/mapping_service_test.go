package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/llm"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/traits"
)

type mockMappingRepo struct {
	rows      []domain.TraitMapping
	findErr   error
	insertErr error
	inserts   int
	deletes   int
}

func (m *mockMappingRepo) FindByKey(ctx context.Context, category, name string) (*domain.TraitMapping, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	normalized := domain.NormalizeEntityName(name)
	for i := range m.rows {
		if m.rows[i].Category == category && m.rows[i].Name == normalized {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockMappingRepo) Insert(ctx context.Context, mapping domain.TraitMapping) error {
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	m.rows = append(m.rows, mapping)
	return nil
}

func (m *mockMappingRepo) DeleteByKey(ctx context.Context, category, name string) error {
	m.deletes++
	normalized := domain.NormalizeEntityName(name)
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.Category != category || row.Name != normalized {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

func (m *mockMappingRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func oracleReplyJSON(t *testing.T, space *traits.Space, value float64) string {
	t.Helper()
	traitVals := make(map[string]float64, space.Len())
	for _, name := range space.Names() {
		traitVals[name] = value
	}
	raw, err := json.Marshal(map[string]interface{}{
		"canonical_title": "Canonical",
		"confidence":      0.9,
		"traits":          traitVals,
		"notes":           "",
	})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(raw)
}

func newMappingService(repo repository.MappingRepository, fallback *FallbackDataset, oracle llm.Client) (*MappingService, *traits.Space) {
	space := traits.DefaultSpace()
	svc := NewMappingService(space, repo, NewMemoryMappingCache(), fallback, oracle, time.Second, zap.NewNop())
	return svc, space
}

func TestResolveSecondCallSkipsOracle(t *testing.T) {
	repo := &mockMappingRepo{}
	oracle := &llm.MockClient{}
	svc, space := newMappingService(repo, nil, oracle)
	oracle.Response = oracleReplyJSON(t, space, 0.7)

	first, err := svc.Resolve(context.Background(), "Inception", domain.CategoryMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Resolve(context.Background(), "  inception ", domain.CategoryMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oracle.Calls != 1 {
		t.Fatalf("expected exactly one oracle call, got %d", oracle.Calls)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical vectors, index %d differs: %f vs %f", i, first[i], second[i])
		}
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one persisted mapping, got %d", len(repo.rows))
	}
	if repo.rows[0].Name != "inception" {
		t.Fatalf("expected normalized key, got %q", repo.rows[0].Name)
	}
	if repo.rows[0].Source != domain.MappingSourceOracle {
		t.Fatalf("expected oracle source, got %q", repo.rows[0].Source)
	}
}

func TestResolveOracleFailureDegradesAndRetries(t *testing.T) {
	repo := &mockMappingRepo{}
	oracle := &llm.MockClient{Err: errors.New("timeout")}
	svc, space := newMappingService(repo, nil, oracle)

	v, err := svc.Resolve(context.Background(), "Unknown Song", domain.CategorySong)
	if err != nil {
		t.Fatalf("oracle failure must not surface: %v", err)
	}
	for i, val := range v {
		if val != traits.NeutralValue {
			t.Fatalf("expected neutral vector, index %d got %f", i, val)
		}
	}
	if len(repo.rows) != 0 {
		t.Fatal("oracle failure must not be persisted")
	}

	// La falla no queda cacheada: el proximo request reintenta el oracle.
	oracle.Err = nil
	oracle.Response = oracleReplyJSON(t, space, 0.8)
	if _, err := svc.Resolve(context.Background(), "Unknown Song", domain.CategorySong); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oracle.Calls != 2 {
		t.Fatalf("expected retry on second request, got %d calls", oracle.Calls)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected successful retry persisted, got %d rows", len(repo.rows))
	}
}

func TestResolveMissingTraitKeyIsFailure(t *testing.T) {
	repo := &mockMappingRepo{}
	oracle := &llm.MockClient{}
	svc, space := newMappingService(repo, nil, oracle)

	// Respuesta sin la ultima clave del espacio.
	partial := make(map[string]float64)
	names := space.Names()
	for _, n := range names[:len(names)-1] {
		partial[n] = 0.6
	}
	raw, _ := json.Marshal(map[string]interface{}{"traits": partial})
	oracle.Response = string(raw)

	v, err := svc.Resolve(context.Background(), "Some Movie", domain.CategoryMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, val := range v {
		if val != traits.NeutralValue {
			t.Fatalf("expected neutral on missing key, index %d got %f", i, val)
		}
	}
	if len(repo.rows) != 0 {
		t.Fatal("malformed reply must not be persisted")
	}
}

func TestResolveParsesFencedReply(t *testing.T) {
	repo := &mockMappingRepo{}
	oracle := &llm.MockClient{}
	svc, space := newMappingService(repo, nil, oracle)
	oracle.Response = "```json\n" + oracleReplyJSON(t, space, 0.65) + "\n```"

	v, err := svc.Resolve(context.Background(), "Fenced", domain.CategorySong)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v[0] != 0.65 {
		t.Fatalf("expected parsed value 0.65, got %f", v[0])
	}
	if len(repo.rows) != 1 {
		t.Fatal("expected fenced reply persisted")
	}
}

func TestResolveFuzzyFallbackPersistsInputKey(t *testing.T) {
	space := traits.DefaultSpace()
	path := writeDataset(t, `{"movie": {"avengers": {"bravery": 0.95}}}`)
	fallback, err := LoadFallbackDataset(path, space)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo := &mockMappingRepo{}
	oracle := &llm.MockClient{}
	svc, _ := newMappingService(repo, fallback, oracle)

	v, err := svc.Resolve(context.Background(), "The Avenger", domain.CategoryMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oracle.Calls != 0 {
		t.Fatalf("fallback hit must not call the oracle, got %d calls", oracle.Calls)
	}
	if v[2] != 0.95 {
		t.Fatalf("expected bravery 0.95 from fallback, got %f", v[2])
	}

	if len(repo.rows) != 1 {
		t.Fatalf("expected fallback hit persisted, got %d rows", len(repo.rows))
	}
	// Se guarda bajo la clave del input, no la del dataset.
	if repo.rows[0].Name != "the avenger" {
		t.Fatalf("expected input key persisted, got %q", repo.rows[0].Name)
	}
	if repo.rows[0].Source != domain.MappingSourceFallback {
		t.Fatalf("expected fallback source, got %q", repo.rows[0].Source)
	}
}

func TestResolveBlankNameIsError(t *testing.T) {
	svc, _ := newMappingService(&mockMappingRepo{}, nil, &llm.MockClient{})
	if _, err := svc.Resolve(context.Background(), "   ", domain.CategorySong); !errors.Is(err, ErrBlankEntity) {
		t.Fatalf("expected ErrBlankEntity, got %v", err)
	}
}

func TestResolveStoreErrorPropagates(t *testing.T) {
	repo := &mockMappingRepo{findErr: errors.New("db down")}
	svc, _ := newMappingService(repo, nil, &llm.MockClient{})

	if _, err := svc.Resolve(context.Background(), "Inception", domain.CategoryMovie); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestResolveInsertFailureStillReturnsVector(t *testing.T) {
	repo := &mockMappingRepo{insertErr: errors.New("duplicate key")}
	oracle := &llm.MockClient{}
	svc, space := newMappingService(repo, nil, oracle)
	oracle.Response = oracleReplyJSON(t, space, 0.7)

	v, err := svc.Resolve(context.Background(), "Inception", domain.CategoryMovie)
	if err != nil {
		t.Fatalf("insert failure must not surface: %v", err)
	}
	if v[0] != 0.7 {
		t.Fatalf("expected resolved vector despite insert failure, got %f", v[0])
	}
}

func TestRemapDeletesBeforeMapping(t *testing.T) {
	repo := &mockMappingRepo{}
	oracle := &llm.MockClient{}
	svc, space := newMappingService(repo, nil, oracle)
	oracle.Response = oracleReplyJSON(t, space, 0.5)

	if _, err := svc.Resolve(context.Background(), "Inception", domain.CategoryMovie); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	oracle.Response = oracleReplyJSON(t, space, 0.9)
	mapping, err := svc.Remap(context.Background(), "Inception", domain.CategoryMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletes != 1 {
		t.Fatalf("expected one delete, got %d", repo.deletes)
	}
	if mapping.Traits[0] != 0.9 {
		t.Fatalf("expected remapped value 0.9, got %f", mapping.Traits[0])
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected single row after remap, got %d", len(repo.rows))
	}

	// El cache caliente tambien se invalido: el resolve posterior ve la fila nueva.
	v, err := svc.Resolve(context.Background(), "Inception", domain.CategoryMovie)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v[0] != 0.9 {
		t.Fatalf("expected fresh mapping after remap, got %f", v[0])
	}
}

func TestBuildPromptMentionsAllTraits(t *testing.T) {
	svc, space := newMappingService(&mockMappingRepo{}, nil, &llm.MockClient{})
	prompt := svc.buildPrompt("Inception", domain.CategoryMovie)
	for _, name := range space.Names() {
		if !strings.Contains(prompt, name) {
			t.Fatalf("prompt missing trait %q", name)
		}
	}
	if !strings.Contains(prompt, fmt.Sprintf("%q", "Inception")) {
		t.Fatal("prompt missing entity name")
	}
}
