package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"notificador-produtos/internal/apperr"
	"notificador-produtos/internal/models"
)

// Entry é um registro do journal de erros: o produto que falhou e o contexto
// da execução
type Entry struct {
	RunID   string         `json:"runId"`
	At      time.Time      `json:"at"`
	Kind    apperr.Kind    `json:"kind,omitempty"`
	Error   string         `json:"error"`
	Product models.Product `json:"product"`
}

// Journal acrescenta entradas a um arquivo que só cresce. Cada entrada é um
// objeto JSON seguido de vírgula.
type Journal struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New cria um Journal gravando em path
func New(path string) *Journal {
	return &Journal{path: path, now: time.Now}
}

// Record grava o produto que falhou. Não há deduplicação.
func (j *Journal) Record(runID string, product models.Product, cause error) error {
	entry := Entry{
		RunID:   runID,
		At:      j.now().UTC(),
		Kind:    apperr.KindOf(cause),
		Product: product,
	}
	if cause != nil {
		entry.Error = cause.Error()
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("codificar entrada do journal: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("criar diretório do journal: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("abrir journal %q: %w", j.path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, ",\n"...)); err != nil {
		return fmt.Errorf("gravar journal: %w", err)
	}
	return nil
}
