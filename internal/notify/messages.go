package notify

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"notificador-produtos/internal/apperr"
)

// MessageStore guarda os IDs das mensagens enviadas, que serão apagadas na
// próxima execução
type MessageStore interface {
	LoadIDs() ([]int, error)
	AppendID(id int) error
	ClearIDs() error
}

// FileMessageStore guarda um ID por linha em um arquivo texto
type FileMessageStore struct {
	path string
}

// NewFileMessageStore cria o store no caminho informado
func NewFileMessageStore(path string) *FileMessageStore {
	return &FileMessageStore{path: path}
}

// LoadIDs lê os IDs salvos. Arquivo inexistente equivale a lista vazia;
// linhas inválidas são ignoradas.
func (s *FileMessageStore) LoadIDs() ([]int, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.New(apperr.Persistence, "ler IDs de mensagens", err)
	}
	defer f.Close()

	var ids []int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil || id <= 0 {
			log.Printf("ID de mensagem inválido ignorado: %q", line)
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.New(apperr.Persistence, "ler IDs de mensagens", err)
	}
	return ids, nil
}

// AppendID acrescenta um ID ao final do arquivo
func (s *FileMessageStore) AppendID(id int) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return apperr.New(apperr.Persistence, "criar diretório de mensagens", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return apperr.New(apperr.Persistence, "abrir arquivo de mensagens", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", id); err != nil {
		return apperr.New(apperr.Persistence, "gravar ID de mensagem", err)
	}
	return nil
}

// ClearIDs esvazia a lista
func (s *FileMessageStore) ClearIDs() error {
	if err := os.WriteFile(s.path, nil, 0644); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.New(apperr.Persistence, "limpar IDs de mensagens", err)
	}
	return nil
}
