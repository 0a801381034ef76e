package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/storefront-api/internal/email"
	"github.com/redmonkez12/storefront-api/internal/logging"
)

type recordingNotifier struct {
	orders   []email.Order
	contacts []email.Contact
	err      error
}

func (n *recordingNotifier) SendOrder(_ context.Context, order email.Order) error {
	if n.err != nil {
		return n.err
	}
	n.orders = append(n.orders, order)
	return nil
}

func (n *recordingNotifier) SendContact(_ context.Context, contact email.Contact) error {
	if n.err != nil {
		return n.err
	}
	n.contacts = append(n.contacts, contact)
	return nil
}

func TestGroupItems(t *testing.T) {
	lines := GroupItems([]OrderItem{
		{Title: "Valve", Price: 10, Description: "brass"},
		{Title: "Pipe", Price: 2.5},
		{Title: "Valve", Price: 10},
		{Title: "Valve", Price: 10},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, email.OrderLine{Title: "Valve", Description: "brass", Quantity: 3, Subtotal: 30}, lines[0])
	assert.Equal(t, email.OrderLine{Title: "Pipe", Quantity: 1, Subtotal: 2.5}, lines[1])
}

func newContactRouter(n *recordingNotifier) http.Handler {
	h := NewHandler(NewService(n, logging.NewDiscardLogger()))
	r := chi.NewRouter()
	r.Post("/send-order", h.SendOrder)
	r.Post("/send-order/contact", h.SendContact)
	return r
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSendOrder(t *testing.T) {
	n := &recordingNotifier{}
	router := newContactRouter(n)

	rec := post(router, "/send-order", `{"name":"Ana","phone":"123","items":[{"title":"Valve","price":10},{"title":"Valve","price":10}],"total":20}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Len(t, n.orders, 1)
	assert.Equal(t, 2, n.orders[0].Lines[0].Quantity)
	assert.Equal(t, 20.0, n.orders[0].Total)
}

func TestSendOrderValidation(t *testing.T) {
	router := newContactRouter(&recordingNotifier{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing name", body: `{"phone":"1","items":[{"title":"a"}],"total":1}`, want: "Missing name"},
		{name: "missing phone", body: `{"name":"a","items":[{"title":"a"}],"total":1}`, want: "Missing phone"},
		{name: "no items", body: `{"name":"a","phone":"1","items":[],"total":1}`, want: "Missing items"},
		{name: "missing total", body: `{"name":"a","phone":"1","items":[{"title":"a"}]}`, want: "Missing total"},
		{name: "negative total", body: `{"name":"a","phone":"1","items":[{"title":"a"}],"total":-1}`, want: "Total must be greater than or equal to 0"},
		{name: "total as text", body: `{"name":"a","phone":"1","items":[{"title":"a"}],"total":"1"}`, want: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(router, "/send-order", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestSendContact(t *testing.T) {
	n := &recordingNotifier{}
	router := newContactRouter(n)
	valid := `{"name":"Ana","email":"ana@example.com","localidad":"Rosario","phone":"123","empresa":"ACME","actividad":"Retail","cotizar":["Valves"," "],"message":"Hi"}`

	rec := post(router, "/send-order/contact", valid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, n.contacts, 1)
	assert.Equal(t, []string{"Valves"}, n.contacts[0].Cotizar)

	rec = post(router, "/send-order/contact", strings.Replace(valid, "ana@example.com", "nope", 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is not valid")

	rec = post(router, "/send-order/contact", strings.Replace(valid, `["Valves"," "]`, `[]`, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing cotizar")

	rec = post(router, "/send-order/contact", strings.Replace(valid, `"empresa":"ACME",`, "", 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing empresa")
}

func TestNotifierFailureIsInternal(t *testing.T) {
	router := newContactRouter(&recordingNotifier{err: errors.New("smtp down")})

	rec := post(router, "/send-order", `{"name":"Ana","phone":"123","items":[{"title":"Valve","price":10}],"total":10}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "smtp down")
}
