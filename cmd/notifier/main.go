package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"notificador-produtos/config"
	"notificador-produtos/internal/app"
	"notificador-produtos/internal/ledger"
	"notificador-produtos/internal/models"
	"notificador-produtos/internal/monitor"
	"notificador-produtos/internal/selector"

	"github.com/joho/godotenv"
)

func main() {
	all := flag.Bool("all", false, "reprocessa todos os produtos sem perguntar")
	only := flag.String("select", "", "títulos (ou URLs) a reprocessar, separados por vírgula")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Uso: %s [-all] [-select a,b] [run]\n       %s add\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configurações: %v", err)
	}

	a, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Erro ao inicializar: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt := selector.NewPrompt(os.Stdin, os.Stdout)

	switch cmd := flag.Arg(0); cmd {
	case "", "run":
		var sel monitor.Selector = prompt
		switch {
		case *all:
			sel = selector.All{}
		case *only != "":
			sel = selector.Fixed(splitList(*only))
		}
		if err := run(ctx, a.Monitor, sel, cfg.CheckInterval); err != nil {
			a.Close()
			log.Fatalf("Erro na execução: %v", err)
		}
	case "add":
		if err := addProducts(a.Monitor, prompt); err != nil {
			a.Close()
			log.Fatalf("Erro ao adicionar produto: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// run faz uma execução e imprime o relatório; com intervalo configurado
// repete até receber um sinal
func run(ctx context.Context, m *monitor.Monitor, sel monitor.Selector, interval time.Duration) error {
	if interval > 0 {
		m.Start(ctx, interval, sel)
		return nil
	}

	report, err := m.Run(ctx, sel)
	if report != nil {
		fmt.Print(report.Summary())
	}
	return err
}

func addProducts(m *monitor.Monitor, prompt *selector.Prompt) error {
	for {
		p, err := readProduct(prompt)
		if err != nil {
			return err
		}

		err = m.Mutate(func(products []models.Product) ([]models.Product, error) {
			return ledger.Add(products, p)
		})
		if err != nil {
			return err
		}
		fmt.Println("Produto adicionado com sucesso!")

		again, err := prompt.Ask("Adicionar outro produto? (sim/não): ")
		if err != nil {
			return err
		}
		if a := strings.ToLower(again); a != "sim" && a != "s" && a != "yes" {
			return nil
		}
	}
}

func readProduct(prompt *selector.Prompt) (models.Product, error) {
	url, err := prompt.Ask("URL do produto: ")
	if err != nil {
		return models.Product{}, err
	}

	fmt.Println("Cole os dados da calculadora (custo, preço de venda, lucro, ROI, breakeven) e termine com uma linha vazia:")
	lines, err := prompt.ReadBlock()
	if err != nil {
		return models.Product{}, err
	}
	basis, err := ledger.ParseCalculatorBlock(lines)
	if err != nil {
		return models.Product{}, err
	}

	answer, err := prompt.Ask("Preço desejado (opcional): ")
	if err != nil {
		return models.Product{}, err
	}
	desired, _ := strconv.ParseFloat(strings.ReplaceAll(answer, ",", "."), 64)

	fmt.Printf("custo=%s preço=%s lucro=%s desejado=%.2f\n", basis.Cost, basis.Price, basis.Profit, desired)
	return ledger.NewProduct(url, basis, desired, time.Now().Format(models.DateLayout))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
