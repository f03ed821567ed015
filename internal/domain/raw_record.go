package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRecord — запись каталога в том виде, в каком её отдаёт удалённый сервис.
type RawRecord struct {
	ID            FlexString `json:"id"`
	Code          FlexString `json:"codice"`
	Brand         string     `json:"marca"`
	Title         string     `json:"titolo"`
	Category1     string     `json:"categoria"`
	Category2     string     `json:"sottocategoria"`
	Tags          string     `json:"tags"`
	Description   string     `json:"descrizione"`
	Prices        []RawPrice `json:"prezzi"`
	TaxRate       FlexInt    `json:"aliquota_iva"`
	StockQuantity FlexInt    `json:"quantita"`
	Images        []string   `json:"immagini"`

	// DecodeErr — запись не разобралась; заполнены только ID и Code, если их удалось прочитать.
	DecodeErr error `json:"-"`
}

// RawPrice — одна из ценовых позиций товара (интернет, магазин и т.д.).
type RawPrice struct {
	Listino     string    `json:"listino"`
	Descrizione string    `json:"descrizione"`
	Prezzo      FlexFloat `json:"prezzo"`
}

// FlexString принимает из JSON как строку, так и число.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: unsupported value %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexInt — целое, которое приходит числом или строкой с числом. Valid=false: null, пустая строка или поле отсутствует.
type FlexInt struct {
	Value int
	Valid bool
}

// IntOf — заданное целое.
func IntOf(v int) FlexInt {
	return FlexInt{Value: v, Valid: true}
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	text, ok, err := numericText(data)
	if err != nil || !ok {
		*f = FlexInt{}
		return err
	}

	if n, err := strconv.Atoi(text); err == nil {
		*f = IntOf(n)
		return nil
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return fmt.Errorf("flex int: unsupported value %s", string(data))
	}
	*f = IntOf(int(v))
	return nil
}

// FlexFloat — число, которое приходит числом или строкой ("9.50", "9,50"). null и пустая строка — ноль.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	text, ok, err := numericText(data)
	if err != nil || !ok {
		*f = 0
		return err
	}

	if !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("flex float: unsupported value %s", string(data))
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// numericText снимает кавычки со строкового числа. ok=false — значение пустое.
func numericText(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", false, nil
	}

	if data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", false, fmt.Errorf("flex number: unsupported value %s", string(data))
		}
		return n.String(), true, nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false, err
	}
	s = strings.TrimSpace(s)
	return s, s != "", nil
}
