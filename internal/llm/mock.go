package llm

import "context"

// MockClient permite tests sin llamar a un oracle real.
// Calls cuenta invocaciones para verificar que el cache corta el camino.
type MockClient struct {
	Response string
	Err      error
	Calls    int
	Prompts  []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}
