// Package soap реализует клиент удалённого каталога: SOAP 1.1 запрос постранично,
// в ответе внутри узла результата лежит JSON-массив записей.
package soap

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
)

const (
	soapEnvelopeNS  = "http://schemas.xmlsoap.org/soap/envelope/"
	maxResponseSize = 64 << 20
)

type requestEnvelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	XSI     string      `xml:"xmlns:xsi,attr"`
	XSD     string      `xml:"xmlns:xsd,attr"`
	Soap    string      `xml:"xmlns:soap,attr"`
	Body    requestBody `xml:"soap:Body"`
}

type requestBody struct {
	Operation operationRequest
}

// operationRequest — имя элемента и namespace задаются через XMLName в рантайме.
type operationRequest struct {
	XMLName       xml.Name
	APIKey        string `xml:"apiKey"`
	Filters       string `xml:"filters"`
	SortField     string `xml:"sortField"`
	SortDirection string `xml:"sortDirection"`
	Page          int    `xml:"page"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// CatalogClient запрашивает страницы каталога у удалённого сервиса.
type CatalogClient struct {
	httpClient *http.Client
	cfg        *cfg.SoapCfg
	logger     logger.Logger
}

func NewCatalogClient(cfg *cfg.SoapCfg, logger logger.Logger) *CatalogClient {
	return NewCatalogClientWithHTTP(&http.Client{Timeout: cfg.Timeout}, cfg, logger)
}

func NewCatalogClientWithHTTP(httpClient *http.Client, cfg *cfg.SoapCfg, logger logger.Logger) *CatalogClient {
	return &CatalogClient{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
	}
}

// FetchPage возвращает записи страницы page. Пустой срез означает конец каталога.
func (c *CatalogClient) FetchPage(ctx context.Context, page int) ([]domain.RawRecord, error) {
	const op = "CatalogClient.FetchPage"

	payload, err := c.buildEnvelope(page)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", c.cfg.SOAPAction))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrTransport, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: read body: %v", e.ErrTransport, err))
	}

	result, err := c.extractResult(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if errors.Is(err, e.ErrSoapFault) {
			return nil, e.Wrap(op, err)
		}
		return nil, e.Wrap(op, fmt.Errorf("%w: unexpected status %d", e.ErrTransport, resp.StatusCode))
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	records, err := c.decodeRecords(result, page)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Debugf("catalog page %d: %d records", page, len(records))
	return records, nil
}

func (c *CatalogClient) buildEnvelope(page int) ([]byte, error) {
	env := requestEnvelope{
		XSI:  "http://www.w3.org/2001/XMLSchema-instance",
		XSD:  "http://www.w3.org/2001/XMLSchema",
		Soap: soapEnvelopeNS,
		Body: requestBody{
			Operation: operationRequest{
				XMLName:       xml.Name{Space: c.cfg.Namespace, Local: c.cfg.Operation},
				APIKey:        c.cfg.APIKey,
				Filters:       c.cfg.Filters,
				SortField:     c.cfg.SortField,
				SortDirection: c.cfg.SortDirection,
				Page:          page,
			},
		},
	}

	out, err := xml.Marshal(env)
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), out...), nil
}

// extractResult ищет Envelope/Body/.../ResultNode и возвращает его текст.
// Fault внутри Body возвращается как ErrSoapFault.
func (c *CatalogClient) extractResult(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var inEnvelope, inBody bool
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", e.ErrMalformedEnvelope, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case start.Name.Local == "Envelope":
			inEnvelope = true
		case start.Name.Local == "Body" && inEnvelope:
			inBody = true
		case start.Name.Local == "Fault" && inBody:
			var f soapFault
			if err := dec.DecodeElement(&f, &start); err != nil {
				return "", fmt.Errorf("%w: %v", e.ErrMalformedEnvelope, err)
			}
			return "", fmt.Errorf("%w: %s: %s", e.ErrSoapFault, strings.TrimSpace(f.Code), strings.TrimSpace(f.String))
		case start.Name.Local == c.cfg.ResultNode && inBody:
			var text string
			if err := dec.DecodeElement(&text, &start); err != nil {
				return "", fmt.Errorf("%w: %v", e.ErrMalformedEnvelope, err)
			}
			return text, nil
		}
	}

	switch {
	case !inEnvelope:
		return "", fmt.Errorf("%w: Envelope not found", e.ErrMalformedEnvelope)
	case !inBody:
		return "", fmt.Errorf("%w: Body not found", e.ErrMalformedEnvelope)
	default:
		return "", fmt.Errorf("%w: %s not found", e.ErrMalformedEnvelope, c.cfg.ResultNode)
	}
}

// decodeRecords разбирает JSON внутри узла результата. При FailOpen битый массив считается пустой страницей.
// Записи разбираются по одной: нераспознанная запись возвращается с DecodeErr и не мешает остальным.
func (c *CatalogClient) decodeRecords(result string, page int) ([]domain.RawRecord, error) {
	result = strings.TrimSpace(result)
	if result == "" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(result), &items); err != nil {
		if c.cfg.FailOpen {
			c.logger.Warnf("catalog page %d: malformed payload treated as empty page: %v", page, err)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", e.ErrMalformedPayload, err)
	}

	records := make([]domain.RawRecord, 0, len(items))
	for i, item := range items {
		var rec domain.RawRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			rec = identify(item)
			rec.DecodeErr = fmt.Errorf("%w: item %d: %v", e.ErrMalformedRecord, i, err)
			c.logger.Warnf("catalog page %d: record id=%q code=%q not decoded: %v", page, rec.ID, rec.Code, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// identify достаёт id и codice из записи, которую не удалось разобрать целиком.
func identify(item json.RawMessage) domain.RawRecord {
	var id struct {
		ID   domain.FlexString `json:"id"`
		Code domain.FlexString `json:"codice"`
	}
	_ = json.Unmarshal(item, &id)

	return domain.RawRecord{ID: id.ID, Code: id.Code}
}
