package domain

// ApprovalRecord — строка таблицы согласования (зеркало товара для ручной проверки).
type ApprovalRecord struct {
	Row          int // Номер строки в листе, данные начинаются со второй строки
	ExternalID   string
	Code         string
	Description  string
	Price        string
	Quantity     string
	Category1    string
	Category2    string
	Tags         string
	Approved     bool
	ApprovedAt   string
	Translations map[string]string // Ключ — имя колонки, например descrizione_fr
}

// ApprovalInconsistency — строка, где флаг и время согласования расходятся.
type ApprovalInconsistency struct {
	Row        int    `json:"row"`
	Code       string `json:"code"`
	Approved   string `json:"approved"`
	ApprovedAt string `json:"approved_at"`
	Reason     string `json:"reason"`
}
