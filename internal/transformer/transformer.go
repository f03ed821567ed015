// Package transformer превращает сырую запись каталога в нормализованный товар.
// Все функции чистые: без ввода-вывода и без состояния.
package transformer

import (
	"html"
	"regexp"
	"strings"

	"github.com/DRSN-tech/catalog-sync/internal/domain"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/shopspring/decimal"
)

var (
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
)

// Markers — маркеры языков в порядке вывода (например "IT:", "FR:") и маркер языка по умолчанию.
type Markers struct {
	Order   []string
	Default string
}

// NewMarkers строит маркеры из кодов языков: "IT" -> "IT:".
func NewMarkers(languages []string, defaultLanguage string) Markers {
	order := make([]string, 0, len(languages))
	for _, l := range languages {
		order = append(order, strings.ToUpper(strings.TrimSpace(l))+":")
	}

	return Markers{
		Order:   order,
		Default: strings.ToUpper(strings.TrimSpace(defaultLanguage)) + ":",
	}
}

// StripMarkup заменяет переносы <br> на \n, удаляет остальные теги и раскрывает HTML-сущности.
func StripMarkup(s string) string {
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// ExtractDefaultLanguage возвращает текст до первого маркера чужого языка.
func ExtractDefaultLanguage(blob string, m Markers) string {
	text := StripMarkup(blob)

	cut := len(text)
	for _, marker := range m.Order {
		if marker == m.Default {
			continue
		}
		if idx := strings.Index(text, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}

	return strings.TrimSpace(text[:cut])
}

// ExtractMultilingual собирает блоки всех найденных языков.
// Блок языка начинается с первого вхождения его маркера и заканчивается на ближайшем следующем
// по позиции маркере. Блоки выводятся в порядке m.Order через пустую строку.
func ExtractMultilingual(blob string, m Markers) string {
	text := StripMarkup(blob)

	positions := make(map[string]int, len(m.Order))
	for _, marker := range m.Order {
		if idx := strings.Index(text, marker); idx >= 0 {
			positions[marker] = idx
		}
	}

	blocks := make([]string, 0, len(positions))
	for _, marker := range m.Order {
		start, ok := positions[marker]
		if !ok {
			continue
		}

		end := len(text)
		for _, pos := range positions {
			if pos > start && pos < end {
				end = pos
			}
		}

		if block := strings.TrimSpace(text[start:end]); block != "" {
			blocks = append(blocks, block)
		}
	}

	return strings.Join(blocks, "\n\n")
}

// SelectPrice выбирает цену: сначала позиция, в метке которой (listino или descrizione) есть keyword
// без учёта регистра, затем первая позиция. Пустой список — nil. Результат округляется до копеек.
func SelectPrice(prices []domain.RawPrice, keyword string) *decimal.Decimal {
	if len(prices) == 0 {
		return nil
	}

	selected := prices[0]
	kw := strings.ToLower(keyword)
	for _, p := range prices {
		if strings.Contains(strings.ToLower(p.Listino), kw) || strings.Contains(strings.ToLower(p.Descrizione), kw) {
			selected = p
			break
		}
	}

	price := decimal.NewFromFloat(selected.Prezzo.Float64()).Round(2)
	return &price
}

type Config struct {
	Languages       []string
	DefaultLanguage string
	PriceKeyword    string
	DefaultTaxRate  int
}

// Transformer нормализует записи каталога по заданной конфигурации.
type Transformer struct {
	markers        Markers
	priceKeyword   string
	defaultTaxRate int
}

func New(cfg Config) *Transformer {
	return &Transformer{
		markers:        NewMarkers(cfg.Languages, cfg.DefaultLanguage),
		priceKeyword:   cfg.PriceKeyword,
		defaultTaxRate: cfg.DefaultTaxRate,
	}
}

// Normalize превращает сырую запись в товар. Ошибка означает, что запись нужно пропустить.
func (t *Transformer) Normalize(raw domain.RawRecord) (*domain.CatalogItem, error) {
	const op = "Transformer.Normalize"

	if raw.DecodeErr != nil {
		return nil, e.Wrap(op, raw.DecodeErr)
	}

	externalID := strings.TrimSpace(raw.ID.String())
	if externalID == "" {
		return nil, e.Wrap(op, e.ErrMissingExternalID)
	}

	code := strings.TrimSpace(raw.Code.String())
	if code == "" {
		return nil, e.Wrap(op, e.Wrap("external id "+externalID, e.ErrMissingCode))
	}

	taxRate := t.defaultTaxRate
	if raw.TaxRate.Valid {
		taxRate = raw.TaxRate.Value
	}

	stock := 0
	if raw.StockQuantity.Valid {
		stock = raw.StockQuantity.Value
	}

	return &domain.CatalogItem{
		ExternalID:              externalID,
		Code:                    code,
		Brand:                   strings.TrimSpace(raw.Brand),
		Title:                   strings.TrimSpace(raw.Title),
		Category1:               strings.TrimSpace(raw.Category1),
		Category2:               strings.TrimSpace(raw.Category2),
		Tags:                    strings.TrimSpace(raw.Tags),
		DescriptionPlain:        ExtractDefaultLanguage(raw.Description, t.markers),
		DescriptionMultilingual: ExtractMultilingual(raw.Description, t.markers),
		Price:                   SelectPrice(raw.Prices, t.priceKeyword),
		TaxRate:                 taxRate,
		StockQuantity:           stock,
		ImageURL:                firstImage(raw.Images),
	}, nil
}

func firstImage(images []string) string {
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			return img
		}
	}
	return ""
}
