package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Price Amount `json:"price"`
	}{Price: Cents(1999)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":19.99}`, string(b))

	var in struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12.5,"b":"3.10","c":7}`), &in))
	assert.Equal(t, Cents(1250), in.A)
	assert.Equal(t, Cents(310), in.B)
	assert.Equal(t, Cents(700), in.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"abc"}`), &in))
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-3.10", Cents(-310).String())
	assert.Equal(t, "120.00", Cents(12000).String())
}

func TestPercentOfRoundsHalfUp(t *testing.T) {
	// 8% of 0.06 = 0.0048 -> 0.00; 8% of 0.07 = 0.0056 -> 0.01
	assert.Equal(t, Cents(0), Cents(6).PercentOf(8))
	assert.Equal(t, Cents(1), Cents(7).PercentOf(8))
	// 8% of 45.00 = 3.60
	assert.Equal(t, Cents(360), Cents(4500).PercentOf(8))
}

func TestScan(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan(int64(4200)))
	assert.Equal(t, Cents(4200), a)
	require.NoError(t, a.Scan([]byte("15")))
	assert.Equal(t, Cents(15), a)
	assert.Error(t, a.Scan(true))
}

func TestMulCheckedOverflow(t *testing.T) {
	_, ok := Cents(100000).MulChecked(math.MaxInt64 / 1000)
	assert.False(t, ok)
	_, ok = Cents(100).MulChecked(1 << 62)
	assert.False(t, ok)
	_, ok = Cents(-1).MulChecked(math.MinInt64)
	assert.False(t, ok)

	_, ok = Max.MulChecked(2147483647)
	assert.False(t, ok)

	got, ok := Max.MulChecked(100)
	require.True(t, ok)
	assert.Equal(t, Cents(999_999_999_900), got)

	got, ok = Cents(1999).MulChecked(3)
	require.True(t, ok)
	assert.Equal(t, Cents(5997), got)
}

func TestAddCheckedOverflow(t *testing.T) {
	_, ok := Amount(math.MaxInt64).AddChecked(1)
	assert.False(t, ok)
	_, ok = Amount(math.MinInt64).AddChecked(-1)
	assert.False(t, ok)

	got, ok := Cents(150).AddChecked(Cents(-200))
	require.True(t, ok)
	assert.Equal(t, Cents(-50), got)
}
