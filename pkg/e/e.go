package e

import "fmt"

var (
	// Ошибки конфигурации: фатальны при старте
	ErrMissingConfig        = fmt.Errorf("required configuration is missing")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки удалённого каталога
	ErrTransport         = fmt.Errorf("catalog transport failure")
	ErrMalformedEnvelope = fmt.Errorf("malformed soap envelope")
	ErrMalformedPayload  = fmt.Errorf("malformed catalog payload")
	ErrMalformedRecord   = fmt.Errorf("malformed catalog record")
	ErrSoapFault         = fmt.Errorf("soap fault")

	// Ошибки нормализации записи
	ErrMissingExternalID = fmt.Errorf("record has no external id")
	ErrMissingCode       = fmt.Errorf("record has no code")
	ErrDuplicateCode     = fmt.Errorf("code already seen in this run")

	// Синхронизация
	ErrSyncInProgress = fmt.Errorf("catalog sync already in progress")
	ErrSyncCancelled  = fmt.Errorf("catalog sync cancelled")
	ErrNoSyncReport   = fmt.Errorf("no sync report yet")

	// Таблица согласования
	ErrItemNotFound       = fmt.Errorf("item not found")
	ErrPartialApproval    = fmt.Errorf("approval written partially")
	ErrHeaderMismatch     = fmt.Errorf("mirror header does not match schema")
	ErrUnknownColumn      = fmt.Errorf("column is not part of the mirror schema")
	ErrResetNotConfirmed  = fmt.Errorf("header reset requires confirm=true")
	ErrNoApprovedItems    = fmt.Errorf("no approved items to publish")
	ErrInvalidApprovalArg = fmt.Errorf("approval filter must be all or unapproved")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
