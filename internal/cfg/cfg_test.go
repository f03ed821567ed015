package cfg

import (
	"testing"

	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSoapEnv(t *testing.T, filters string) {
	t.Helper()

	t.Setenv("SOAP_ENDPOINT", "http://catalog.local/service.asmx")
	t.Setenv("SOAP_API_KEY", "secret")
	t.Setenv("SOAP_FILTERS", filters)
}

func TestLoadSoapCfg_Filters(t *testing.T) {
	t.Run("array is accepted", func(t *testing.T) {
		setSoapEnv(t, `[{"campo":"attivo","valore":true}]`)

		c, err := loadSoapCfg(logger.NewDiscardLogger())
		require.NoError(t, err)
		assert.Equal(t, `[{"campo":"attivo","valore":true}]`, c.Filters)
		assert.Equal(t, "GetProductsResult", c.ResultNode)
		assert.Equal(t, "http://tempuri.org/GetProducts", c.SOAPAction)
	})

	t.Run("empty array is accepted", func(t *testing.T) {
		setSoapEnv(t, `[]`)

		_, err := loadSoapCfg(logger.NewDiscardLogger())
		require.NoError(t, err)
	})

	for _, filters := range []string{`{}`, `"x"`, `null`, `42`, `[{"campo":`} {
		t.Run("rejects "+filters, func(t *testing.T) {
			setSoapEnv(t, filters)

			_, err := loadSoapCfg(logger.NewDiscardLogger())
			assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
		})
	}
}
