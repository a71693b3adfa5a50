package notify

import "time"

// Sent identifica uma mensagem enviada ao canal
type Sent struct {
	MessageID int
	Date      time.Time
}

// Channel é o canal de notificação. O texto já deve chegar escapado.
// Send retorna nil, nil quando o canal está desabilitado.
type Channel interface {
	Send(text string) (*Sent, error)
	Delete(messageID int) error
}

// Disabled é o canal usado quando não há credenciais: não envia nada
type Disabled struct{}

func (Disabled) Send(string) (*Sent, error) { return nil, nil }

func (Disabled) Delete(int) error { return nil }
