package ledger

import (
	"errors"

	"notificador-produtos/internal/apperr"
	"notificador-produtos/internal/finance"
	"notificador-produtos/internal/models"
)

// Store é o armazenamento do ledger. As operações sempre tratam a coleção
// inteira: não existe atualização parcial.
type Store interface {
	LoadAll() ([]models.Product, error)
	SaveAll(products []models.Product) error
}

// Reconcile insere ou substitui p na coleção, usando a URL como chave.
// Se a URL já existe o registro é trocado na mesma posição; senão p vai para
// o final. A coleção recebida não é alterada.
func Reconcile(products []models.Product, p models.Product) []models.Product {
	out := make([]models.Product, len(products), len(products)+1)
	copy(out, products)

	if i := IndexOf(out, p.URL); i >= 0 {
		out[i] = p
		return out
	}
	return append(out, p)
}

// IndexOf retorna a posição do produto com a URL informada, ou -1
func IndexOf(products []models.Product, url string) int {
	for i, p := range products {
		if p.URL == url {
			return i
		}
	}
	return -1
}

// Remove retira o produto com a URL informada. O segundo retorno indica se
// havia algo para remover.
func Remove(products []models.Product, url string) ([]models.Product, bool) {
	i := IndexOf(products, url)
	if i < 0 {
		return products, false
	}
	out := make([]models.Product, 0, len(products)-1)
	out = append(out, products[:i]...)
	return append(out, products[i+1:]...), true
}

// Validate confere se o registro tem o mínimo para ser processado: URL e
// custo registrado legível. Custo zero é deixado para o cálculo, que o trata
// como erro de cálculo.
func Validate(p models.Product) error {
	if p.URL == "" {
		return apperr.New(apperr.Parse, "validar produto", errors.New("productUrl vazio"))
	}
	fields := []struct{ name, value string }{
		{"price.price", p.Basis.Price},
		{"price.cost", p.Basis.Cost},
		{"price.profit", p.Basis.Profit},
	}
	for _, f := range fields {
		if _, err := finance.ParseMoney(f.value); err != nil {
			return apperr.Newf(apperr.Parse, "validar produto", "%s de %s: %v", f.name, p.URL, err)
		}
	}
	return nil
}
