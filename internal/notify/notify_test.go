package notify

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"notificador-produtos/internal/finance"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

type fakeChannel struct {
	nextID     int
	texts      []string
	deleted    []int
	failDelete map[int]bool
	failSend   bool
}

func (c *fakeChannel) Send(text string) (*Sent, error) {
	if c.failSend {
		return nil, errors.New("too many requests")
	}
	c.nextID++
	c.texts = append(c.texts, text)
	return &Sent{MessageID: c.nextID, Date: time.Now()}, nil
}

func (c *fakeChannel) Delete(id int) error {
	if c.failDelete[id] {
		return fmt.Errorf("message %d not found", id)
	}
	c.deleted = append(c.deleted, id)
	return nil
}

type memStore struct {
	ids     []int
	loadErr error
}

func (s *memStore) LoadIDs() ([]int, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]int(nil), s.ids...), nil
}

func (s *memStore) AppendID(id int) error { s.ids = append(s.ids, id); return nil }
func (s *memStore) ClearIDs() error      { s.ids = nil; return nil }

var startedAt = time.Date(2026, 10, 18, 9, 5, 0, 0, time.UTC)

func sampleItem() ItemMessage {
	return ItemMessage{
		Title:   "NERF Legends (PS5)",
		URL:     "https://www.amazon.co.uk/dp/B09CHXHQRB",
		Price:   "£12.00",
		Matched: finance.GlyphMatched,
		Metrics: finance.Metrics{Profit: decimal.RequireFromString("4"), ROI: decimal.RequireFromString("80")},
		Status:  finance.Status{Profit: finance.High, ROI: finance.High},
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"NERF Legends (PS5)", `NERF Legends \(PS5\)`},
		{"a_b*c[d]e~f`g>h#i+j-k=l|m{n}o!p", "a\\_b\\*c\\[d\\]e\\~f\\`g\\>h\\#i\\+j\\-k\\=l\\|m\\{n\\}o\\!p"},
		{"£24.98", `£24\.98`},
		{`back\slash`, `back\\slash`},
		{"Café 2 × 75ml", "Café 2 × 75ml"},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeLinkURL(t *testing.T) {
	got := EscapeLinkURL("https://example.com/a_(b)")
	want := `https://example.com/a_(b\)`
	if got != want {
		t.Errorf("EscapeLinkURL = %q; want %q", got, want)
	}
}

func TestFormatItem(t *testing.T) {
	m := sampleItem()
	m.LookupURL = "https://sas.selleramp.com/sas/lookup?x=1"
	got := FormatItem(m, "£")

	wantLines := []string{
		`*Produto:* [NERF Legends \(PS5\)](https://www.amazon.co.uk/dp/B09CHXHQRB)`,
		`*Preço atual:* £12\.00 *Preço desejado:* ✅`,
		`*Lucro:* £ 4\.00 🟢 *ROI:* 80\.00% 🟢`,
		`[SellerAmp](https://sas.selleramp.com/sas/lookup?x=1)`,
	}
	if got != strings.Join(wantLines, "\n") {
		t.Errorf("FormatItem =\n%s\nwant\n%s", got, strings.Join(wantLines, "\n"))
	}
}

func TestFormatItemNegativeProfit(t *testing.T) {
	m := sampleItem()
	m.Metrics = finance.Metrics{Profit: decimal.RequireFromString("-1"), ROI: decimal.RequireFromString("-20")}
	m.Status = finance.Status{Profit: finance.Low, ROI: finance.Low}

	got := FormatItem(m, "£")
	if !strings.Contains(got, `*Lucro:* £ \-1\.00 🔴 *ROI:* \-20\.00% 🔴`) {
		t.Errorf("negative values not escaped:\n%s", got)
	}
}

func TestSessionFullRun(t *testing.T) {
	ch := &fakeChannel{nextID: 100}
	store := &memStore{ids: []int{7, 8, 9}}
	s := NewSession(ch, store, startedAt, "£")

	if err := s.DeleteStale(); err != nil {
		t.Fatalf("DeleteStale: %v", err)
	}
	if !reflect.DeepEqual(ch.deleted, []int{7, 8, 9}) {
		t.Errorf("deleted = %v", ch.deleted)
	}
	if len(store.ids) != 0 {
		t.Errorf("store not cleared: %v", store.ids)
	}

	if err := s.Header(); err != nil {
		t.Fatal(err)
	}
	if err := s.Item(sampleItem()); err != nil {
		t.Fatal(err)
	}
	if err := s.Item(sampleItem()); err != nil {
		t.Fatal(err)
	}
	if err := s.Footer(2, 3); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(store.ids, []int{101, 102, 103, 104}) {
		t.Errorf("stored ids = %v; want only this run's ids", store.ids)
	}
	if !reflect.DeepEqual(s.SentIDs(), store.ids) {
		t.Errorf("SentIDs = %v", s.SentIDs())
	}

	header := ch.texts[0]
	if header != `\*\*\*\* *ATUALIZAÇÃO DE PRODUTOS* 18/10/2026, 09:05 \*\*\*\*` {
		t.Errorf("header = %q", header)
	}
	footer := ch.texts[len(ch.texts)-1]
	if footer != `\*\*\*\* *2/3 FINALIZADO*\! 18/10/2026, 09:05 \*\*\*\*` {
		t.Errorf("footer = %q", footer)
	}
}

func TestDeleteStaleContinuesAfterFailure(t *testing.T) {
	ch := &fakeChannel{failDelete: map[int]bool{8: true}}
	store := &memStore{ids: []int{7, 8, 9}}
	s := NewSession(ch, store, startedAt, "£")

	if err := s.DeleteStale(); err != nil {
		t.Fatalf("DeleteStale: %v", err)
	}
	if !reflect.DeepEqual(ch.deleted, []int{7, 9}) {
		t.Errorf("deleted = %v; want [7 9]", ch.deleted)
	}
	if len(store.ids) != 0 {
		t.Errorf("store must be cleared even after a failed delete: %v", store.ids)
	}
}

func TestDeleteStaleEmptyList(t *testing.T) {
	ch := &fakeChannel{}
	s := NewSession(ch, &memStore{}, startedAt, "£")
	if err := s.DeleteStale(); err != nil {
		t.Fatal(err)
	}
	if len(ch.deleted) != 0 {
		t.Errorf("nothing should be deleted")
	}
	if err := s.Header(); err != nil {
		t.Errorf("Header after skipped deletion: %v", err)
	}
}

func TestDeleteStaleUnreadableListIsCleared(t *testing.T) {
	ch := &fakeChannel{nextID: 20}
	store := &memStore{ids: []int{7, 8}, loadErr: errors.New("arquivo corrompido")}
	s := NewSession(ch, store, startedAt, "£")

	if err := s.DeleteStale(); err == nil {
		t.Fatal("expected the load error to be returned")
	}
	store.loadErr = nil
	if err := s.Header(); err != nil {
		t.Fatalf("Header after failed load: %v", err)
	}
	if !reflect.DeepEqual(store.ids, []int{21}) {
		t.Errorf("stored ids = %v; want only this run's ids", store.ids)
	}
}

func TestSessionOrder(t *testing.T) {
	s := NewSession(&fakeChannel{}, &memStore{}, startedAt, "£")

	if err := s.Header(); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("Header before DeleteStale = %v; want ErrOutOfOrder", err)
	}
	if err := s.Item(sampleItem()); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("Item before Header = %v; want ErrOutOfOrder", err)
	}

	_ = s.DeleteStale()
	_ = s.Header()
	_ = s.Footer(0, 0)
	if err := s.Item(sampleItem()); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("Item after Footer = %v; want ErrOutOfOrder", err)
	}
}

func TestSessionSendFailureKeepsGoing(t *testing.T) {
	ch := &fakeChannel{failSend: true}
	store := &memStore{}
	s := NewSession(ch, store, startedAt, "£")
	_ = s.DeleteStale()

	if err := s.Header(); err == nil {
		t.Error("send failure should be reported")
	}
	ch.failSend = false
	if err := s.Item(sampleItem()); err != nil {
		t.Errorf("Item after failed header: %v", err)
	}
	if len(store.ids) != 1 {
		t.Errorf("stored ids = %v; want 1", store.ids)
	}
}

func TestSessionDisabledChannel(t *testing.T) {
	store := &memStore{}
	s := NewSession(Disabled{}, store, startedAt, "£")
	_ = s.DeleteStale()
	if err := s.Header(); err != nil {
		t.Fatal(err)
	}
	if err := s.Item(sampleItem()); err != nil {
		t.Fatal(err)
	}
	if len(store.ids) != 0 || len(s.SentIDs()) != 0 {
		t.Errorf("disabled channel must not record ids: %v", store.ids)
	}
}

func TestFileMessageStore(t *testing.T) {
	store := NewFileMessageStore(filepath.Join(t.TempDir(), "message_ids.txt"))

	ids, err := store.LoadIDs()
	if err != nil || len(ids) != 0 {
		t.Fatalf("LoadIDs on missing file = %v, %v", ids, err)
	}

	for _, id := range []int{11, 12, 13} {
		if err := store.AppendID(id); err != nil {
			t.Fatal(err)
		}
	}
	ids, err = store.LoadIDs()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []int{11, 12, 13}) {
		t.Errorf("ids = %v", ids)
	}

	if err := store.ClearIDs(); err != nil {
		t.Fatal(err)
	}
	ids, _ = store.LoadIDs()
	if len(ids) != 0 {
		t.Errorf("ids after clear = %v", ids)
	}
}

func TestTelegramSendAndDelete(t *testing.T) {
	var sendForm, deleteForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		switch path.Base(r.URL.Path) {
		case "getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"test_bot"}}`)
		case "sendMessage":
			sendForm = form
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":42,"date":1760778300,"chat":{"id":99,"type":"private"},"text":"x"}}`)
		case "deleteMessage":
			deleteForm = form
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		}
	}))
	defer srv.Close()

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("123:abc", srv.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("NewBotAPIWithAPIEndpoint: %v", err)
	}
	tg := NewTelegram(api, 99)

	sent, err := tg.Send(`*hello*`)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent.MessageID != 42 {
		t.Errorf("MessageID = %d; want 42", sent.MessageID)
	}
	if sendForm["parse_mode"] != "MarkdownV2" || sendForm["chat_id"] != "99" {
		t.Errorf("sendMessage form = %v", sendForm)
	}

	if err := tg.Delete(42); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleteForm["message_id"] != "42" {
		t.Errorf("deleteMessage form = %v", deleteForm)
	}
}
