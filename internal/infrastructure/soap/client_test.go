package soap

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(inner string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>` + inner + `</soap:Body>
</soap:Envelope>`
}

func resultEnvelope(jsonPayload string) string {
	return envelope(`<GetProductsResponse xmlns="http://tempuri.org/"><GetProductsResult>` +
		html.EscapeString(jsonPayload) + `</GetProductsResult></GetProductsResponse>`)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, failOpen bool) *CatalogClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewCatalogClient(&cfg.SoapCfg{
		Endpoint:      srv.URL,
		APIKey:        "secret",
		Namespace:     "http://tempuri.org/",
		Operation:     "GetProducts",
		ResultNode:    "GetProductsResult",
		SOAPAction:    "http://tempuri.org/GetProducts",
		Filters:       `[{"campo":"attivo","valore":true}]`,
		SortField:     "id",
		SortDirection: "ASC",
		Timeout:       time.Second,
		FailOpen:      failOpen,
	}, logger.NewDiscardLogger())
}

func TestCatalogClient_FetchPage(t *testing.T) {
	var gotBody, gotAction, gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotAction = r.Header.Get("SOAPAction")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, resultEnvelope(`[{"id":1,"codice":"A1","prezzi":[{"listino":"Negozio","prezzo":9.5}]},{"id":"2","codice":"B2"}]`))
	}, true)

	records, err := client.FetchPage(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID.String())
	assert.Equal(t, "A1", records[0].Code.String())
	assert.Equal(t, "2", records[1].ID.String())
	require.Len(t, records[0].Prices, 1)
	assert.InDelta(t, 9.5, records[0].Prices[0].Prezzo.Float64(), 0.0001)

	assert.Equal(t, `"http://tempuri.org/GetProducts"`, gotAction)
	assert.Equal(t, "text/xml; charset=utf-8", gotContentType)
	assert.Contains(t, gotBody, `<GetProducts xmlns="http://tempuri.org/">`)
	assert.Contains(t, gotBody, "<apiKey>secret</apiKey>")
	assert.Contains(t, gotBody, "<page>3</page>")
	assert.Contains(t, gotBody, "<sortDirection>ASC</sortDirection>")
}

func TestCatalogClient_FetchPage_EmptyPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, resultEnvelope(`[]`))
	}, true)

	records, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCatalogClient_FetchPage_MalformedPayload(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, resultEnvelope(`[{"id":1,`))
	}

	t.Run("fail open", func(t *testing.T) {
		records, err := newTestClient(t, handler, true).FetchPage(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("fail closed", func(t *testing.T) {
		_, err := newTestClient(t, handler, false).FetchPage(context.Background(), 1)
		assert.ErrorIs(t, err, e.ErrMalformedPayload)
	})
}

func TestCatalogClient_FetchPage_RecordsDecodedOneByOne(t *testing.T) {
	payload := `[
		{"id":1,"codice":"A1"},
		{"id":2,"codice":"B2","quantita":"5","aliquota_iva":"10"},
		{"id":3,"codice":"C3","prezzi":[{"listino":"Negozio","prezzo":"9.50"}]},
		{"id":4,"codice":"D4","quantita":{"n":1}},
		{"id":5,"codice":"E5","prezzi":[{"prezzo":"12,40"}],"quantita":""}
	]`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, resultEnvelope(payload))
	}, true)

	records, err := client.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.NoError(t, records[0].DecodeErr)

	assert.NoError(t, records[1].DecodeErr)
	assert.Equal(t, domain.IntOf(5), records[1].StockQuantity)
	assert.Equal(t, domain.IntOf(10), records[1].TaxRate)

	require.NoError(t, records[2].DecodeErr)
	require.Len(t, records[2].Prices, 1)
	assert.InDelta(t, 9.5, records[2].Prices[0].Prezzo.Float64(), 0.0001)

	assert.ErrorIs(t, records[3].DecodeErr, e.ErrMalformedRecord)
	assert.Equal(t, "4", records[3].ID.String())
	assert.Equal(t, "D4", records[3].Code.String())

	require.NoError(t, records[4].DecodeErr)
	assert.InDelta(t, 12.4, records[4].Prices[0].Prezzo.Float64(), 0.0001)
	assert.False(t, records[4].StockQuantity.Valid)
}

func TestCatalogClient_FetchPage_NonArrayPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, resultEnvelope(`{"id":1,"codice":"A1"}`))
	}, false)

	_, err := client.FetchPage(context.Background(), 1)
	assert.ErrorIs(t, err, e.ErrMalformedPayload)
}

func TestCatalogClient_FetchPage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "soap fault",
			status:  http.StatusInternalServerError,
			body:    envelope(`<soap:Fault><faultcode>soap:Client</faultcode><faultstring>invalid api key</faultstring></soap:Fault>`),
			wantErr: e.ErrSoapFault,
		},
		{
			name:    "non 2xx without fault",
			status:  http.StatusBadGateway,
			body:    "bad gateway",
			wantErr: e.ErrTransport,
		},
		{
			name:    "missing result node",
			status:  http.StatusOK,
			body:    envelope(`<GetProductsResponse xmlns="http://tempuri.org/"></GetProductsResponse>`),
			wantErr: e.ErrMalformedEnvelope,
		},
		{
			name:    "not an envelope",
			status:  http.StatusOK,
			body:    `<html><body>maintenance</body></html>`,
			wantErr: e.ErrMalformedEnvelope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, true)

			_, err := client.FetchPage(context.Background(), 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalogClient_FetchPage_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	client := NewCatalogClient(&cfg.SoapCfg{
		Endpoint:   endpoint,
		Operation:  "GetProducts",
		ResultNode: "GetProductsResult",
		Timeout:    time.Second,
	}, logger.NewDiscardLogger())

	_, err := client.FetchPage(context.Background(), 1)
	assert.ErrorIs(t, err, e.ErrTransport)
}
