package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"notificador-produtos/internal/apperr"
	"notificador-produtos/internal/models"
)

// FileStore guarda o ledger como um array JSON em um arquivo
type FileStore struct {
	path string
}

// NewFileStore cria um FileStore para o caminho informado
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path retorna o caminho do arquivo
func (s *FileStore) Path() string {
	return s.path
}

// LoadAll lê o ledger inteiro. Arquivo inexistente é um ledger vazio.
func (s *FileStore) LoadAll() ([]models.Product, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Product{}, nil
	}
	if err != nil {
		return nil, apperr.New(apperr.Persistence, "ler ledger", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, apperr.New(apperr.Persistence, "decodificar ledger", fmt.Errorf("%s: %w", s.path, err))
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// SaveAll sobrescreve o arquivo com a coleção inteira. A escrita passa por um
// arquivo temporário e rename, para que uma queda no meio não corrompa o ledger.
func (s *FileStore) SaveAll(products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return apperr.New(apperr.Persistence, "codificar ledger", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperr.New(apperr.Persistence, "criar diretório do ledger", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return apperr.New(apperr.Persistence, "criar arquivo temporário", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperr.New(apperr.Persistence, "gravar ledger", err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.New(apperr.Persistence, "gravar ledger", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperr.New(apperr.Persistence, "substituir ledger", err)
	}
	return nil
}
