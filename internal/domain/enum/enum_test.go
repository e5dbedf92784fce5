package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleStatus_JSON(t *testing.T) {
	b, err := json.Marshal(SaleStatusVoided)
	require.NoError(t, err)
	assert.Equal(t, `"voided"`, string(b))

	var s SaleStatus
	require.NoError(t, json.Unmarshal([]byte(`"active"`), &s))
	assert.Equal(t, SaleStatusActive, s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, SaleStatusVoided, s)

	assert.Error(t, json.Unmarshal([]byte(`"refunded"`), &s))
}

func TestSaleStatus_Scan(t *testing.T) {
	var s SaleStatus
	require.NoError(t, s.Scan(int64(1)))
	assert.Equal(t, SaleStatusVoided, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, SaleStatusActive, s)

	assert.Error(t, s.Scan("voided"))
}

func TestLedgerEntryKind_JSON(t *testing.T) {
	var k LedgerEntryKind
	require.NoError(t, json.Unmarshal([]byte(`"payment"`), &k))
	assert.Equal(t, LedgerEntryPayment, k)
	assert.Error(t, json.Unmarshal([]byte(`"refund"`), &k))
	assert.Equal(t, "credit", LedgerEntryCredit.String())
}
