package database

import (
	"database/sql"
	"log"

	"notificador-produtos/internal/apperr"
	"notificador-produtos/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DB encapsula a conexão com o banco SQLite. Guarda o ledger de produtos e
// os IDs das mensagens enviadas.
type DB struct {
	conn *sqlx.DB
}

// New cria uma nova instância do banco de dados
func New(dbPath string) (*DB, error) {
	conn, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, apperr.New(apperr.Persistence, "abrir banco", err)
	}
	// SQLite aceita um escritor por vez
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}

	if err := db.init(); err != nil {
		conn.Close()
		return nil, apperr.New(apperr.Persistence, "criar tabelas", err)
	}

	log.Println("Banco de dados inicializado com sucesso")
	return db, nil
}

// Close fecha a conexão com o banco de dados
func (db *DB) Close() error {
	return db.conn.Close()
}

// init cria as tabelas necessárias
func (db *DB) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		url TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		lookup_url TEXT NOT NULL DEFAULT '',
		desired_price REAL NOT NULL DEFAULT 0,
		monitor_enabled BOOLEAN NOT NULL DEFAULT 1,
		basis_price TEXT NOT NULL DEFAULT '',
		basis_cost TEXT NOT NULL DEFAULT '',
		basis_profit TEXT NOT NULL DEFAULT '',
		title TEXT,
		new_price TEXT,
		matched TEXT,
		last_run_date TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS message_ids (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		message_id INTEGER NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type productRow struct {
	URL            string         `db:"url"`
	Position       int            `db:"position"`
	LookupURL      string         `db:"lookup_url"`
	DesiredPrice   float64        `db:"desired_price"`
	MonitorEnabled bool           `db:"monitor_enabled"`
	BasisPrice     string         `db:"basis_price"`
	BasisCost      string         `db:"basis_cost"`
	BasisProfit    string         `db:"basis_profit"`
	Title          sql.NullString `db:"title"`
	NewPrice       sql.NullString `db:"new_price"`
	Matched        sql.NullString `db:"matched"`
	LastRunDate    string         `db:"last_run_date"`
}

func toRow(p models.Product, position int) productRow {
	row := productRow{
		URL:            p.URL,
		Position:       position,
		LookupURL:      p.LookupURL,
		DesiredPrice:   p.DesiredPrice,
		MonitorEnabled: p.MonitorEnabled,
		BasisPrice:     p.Basis.Price,
		BasisCost:      p.Basis.Cost,
		BasisProfit:    p.Basis.Profit,
		LastRunDate:    p.Date,
	}
	if p.Result != nil {
		row.Title = sql.NullString{String: p.Result.Title, Valid: true}
		row.NewPrice = sql.NullString{String: p.Result.NewPrice, Valid: true}
		row.Matched = sql.NullString{String: p.Result.Matched, Valid: true}
	}
	return row
}

func (r productRow) product() models.Product {
	p := models.Product{
		URL:            r.URL,
		LookupURL:      r.LookupURL,
		DesiredPrice:   r.DesiredPrice,
		MonitorEnabled: r.MonitorEnabled,
		Basis:          models.CostBasis{Price: r.BasisPrice, Cost: r.BasisCost, Profit: r.BasisProfit},
		Date:           r.LastRunDate,
	}
	if r.Title.Valid {
		p.Result = &models.Observation{Title: r.Title.String, NewPrice: r.NewPrice.String, Matched: r.Matched.String}
	}
	return p
}

// LoadAll retorna todos os produtos na ordem do ledger
func (db *DB) LoadAll() ([]models.Product, error) {
	var rows []productRow
	if err := db.conn.Select(&rows, "SELECT * FROM products ORDER BY position"); err != nil {
		return nil, apperr.New(apperr.Persistence, "ler produtos", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.product())
	}
	return products, nil
}

// SaveAll substitui o conteúdo da tabela pela coleção inteira, em uma transação
func (db *DB) SaveAll(products []models.Product) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return apperr.New(apperr.Persistence, "iniciar transação", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM products"); err != nil {
		return apperr.New(apperr.Persistence, "limpar produtos", err)
	}

	insert := `INSERT INTO products (url, position, lookup_url, desired_price, monitor_enabled,
		basis_price, basis_cost, basis_profit, title, new_price, matched, last_run_date)
		VALUES (:url, :position, :lookup_url, :desired_price, :monitor_enabled,
		:basis_price, :basis_cost, :basis_profit, :title, :new_price, :matched, :last_run_date)`
	for i, p := range products {
		if _, err := tx.NamedExec(insert, toRow(p, i)); err != nil {
			return apperr.New(apperr.Persistence, "gravar produto "+p.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.New(apperr.Persistence, "confirmar transação", err)
	}
	return nil
}

// LoadIDs retorna os IDs de mensagens na ordem de envio
func (db *DB) LoadIDs() ([]int, error) {
	var ids []int
	if err := db.conn.Select(&ids, "SELECT message_id FROM message_ids ORDER BY seq"); err != nil {
		return nil, apperr.New(apperr.Persistence, "ler IDs de mensagens", err)
	}
	return ids, nil
}

// AppendID registra o ID de uma mensagem enviada
func (db *DB) AppendID(id int) error {
	if _, err := db.conn.Exec("INSERT INTO message_ids (message_id) VALUES (?)", id); err != nil {
		return apperr.New(apperr.Persistence, "gravar ID de mensagem", err)
	}
	return nil
}

// ClearIDs remove todos os IDs salvos
func (db *DB) ClearIDs() error {
	if _, err := db.conn.Exec("DELETE FROM message_ids"); err != nil {
		return apperr.New(apperr.Persistence, "limpar IDs de mensagens", err)
	}
	return nil
}
