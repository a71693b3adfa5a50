package monitor

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer garante um intervalo mínimo entre envios consecutivos. A primeira
// chamada passa direto; as seguintes esperam o intervalo desde a anterior.
type pacer struct {
	limiter *rate.Limiter
}

func newPacer(interval time.Duration) *pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait bloqueia até o próximo envio ser permitido ou ctx ser cancelado
func (p *pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
