package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

// AllOption é a opção que seleciona todos os produtos
const AllOption = "All products"

// All seleciona sempre todos os produtos, sem perguntar
type All struct{}

func (All) Select([]string) ([]string, error) {
	return []string{AllOption}, nil
}

// Fixed seleciona uma lista de títulos definida de antemão (ex.: flag -select)
type Fixed []string

func (f Fixed) Select([]string) ([]string, error) {
	return []string(f), nil
}

// Prompt pergunta no terminal quais produtos reprocessar
type Prompt struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompt cria o seletor interativo
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{reader: bufio.NewReader(in), out: out}
}

// Ask faz uma pergunta e devolve a resposta sem espaços nas pontas
func (p *Prompt) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadBlock lê linhas até encontrar uma linha vazia (ou fim da entrada)
func (p *Prompt) ReadBlock() ([]string, error) {
	var lines []string
	for {
		line, err := p.reader.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
		if errors.Is(err, io.EOF) || (err == nil && trimmed == "") {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// Select lista as opções numeradas (AllOption primeiro) e lê os números
// escolhidos, separados por vírgula. Resposta vazia repete a pergunta;
// números inválidos são ignorados.
func (p *Prompt) Select(labels []string) ([]string, error) {
	options := append([]string{AllOption}, labels...)

	fmt.Fprintln(p.out, "Selecione quais produtos reprocessar:")
	for i, option := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, option)
	}

	var answer string
	for answer == "" {
		var err error
		answer, err = p.Ask("Digite os números das opções desejadas (separados por vírgula): ")
		if err != nil {
			return nil, err
		}
	}

	var selected []string
	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > len(options) {
			log.Printf("Opção inválida ignorada: %q", part)
			continue
		}
		selected = append(selected, options[n-1])
	}
	return selected, nil
}
