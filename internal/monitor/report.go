package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus é o resultado de um produto na execução
type ItemStatus string

const (
	StatusProcessed ItemStatus = "processed"
	StatusSkipped   ItemStatus = "skipped"
	StatusFailed    ItemStatus = "failed"
	// StatusInterrupted: gravado no ledger, mas a execução parou antes do envio
	StatusInterrupted ItemStatus = "interrupted"
)

// ItemResult descreve o que aconteceu com um produto
type ItemResult struct {
	URL    string
	Title  string
	Status ItemStatus
	Price  string
	Profit decimal.Decimal
	ROI    decimal.Decimal
	// Err é a falha que levou o item ao journal (StatusFailed)
	Err error
	// SaveErr e NotifyErr não interrompem o item, só ficam registrados
	SaveErr   error
	NotifyErr error
}

// RunReport é o relatório de uma execução
type RunReport struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Selected    int
	Processed   int
	Skipped     int
	Failed      int
	Interrupted bool
	Items       []ItemResult
}

func (r *RunReport) add(item ItemResult) {
	switch item.Status {
	case StatusProcessed:
		r.Processed++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Items = append(r.Items, item)
}

// Summary monta um resumo em texto para o terminal
func (r *RunReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Execução %s: %d/%d processados, %d ignorados, %d com erro (%s)\n",
		r.RunID, r.Processed, r.Selected, r.Skipped, r.Failed, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	for _, item := range r.Items {
		label := item.Title
		if label == "" {
			label = item.URL
		}
		switch item.Status {
		case StatusProcessed:
			fmt.Fprintf(&b, "  ok    %s | %s | lucro %s | ROI %s%%\n", label, item.Price, item.Profit.StringFixed(2), item.ROI.StringFixed(2))
		case StatusSkipped:
			fmt.Fprintf(&b, "  pulo  %s (monitoramento desativado)\n", label)
		case StatusFailed:
			fmt.Fprintf(&b, "  erro  %s: %v\n", label, item.Err)
		case StatusInterrupted:
			fmt.Fprintf(&b, "  salvo %s (mensagem não enviada)\n", label)
		}
	}
	if r.Interrupted {
		b.WriteString("  execução interrompida antes do fim\n")
	}
	return b.String()
}
