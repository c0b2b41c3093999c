package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currencyPageHTML = `<html><body><table>
<tr class="currency-list-row">
  <td><span itemprop="name">Amerikan Doları</span></td>
  <td><span itemprop="currency">USD</span></td>
  <td><span dt="bA">41,2345</span></td>
  <td><span dt="change">%0,12</span></td>
</tr>
<tr class="currency-list-row">
  <td><span itemprop="name">Euro</span></td>
  <td><span itemprop="currency">EUR</span></td>
  <td><span dt="bA">45,1100</span></td>
</tr>
<tr class="currency-list-row">
  <td><span itemprop="name">Bozuk Satır</span></td>
</tr>
</table></body></html>`

const commodityPageHTML = `<html><body><table>
<tr class="table-row-md">
  <td><span class="truncate text-theme text-base">Gram Altın</span></td>
  <td><span class="table-code">GA</span></td>
  <td><span dt="amount">2.950,40</span></td>
  <td><span class="table-perc">%1,05</span></td>
</tr>
<tr class="table-row-md">
  <td><span class="truncate text-theme text-base">Çeyrek Altın</span></td>
  <td><span dt="amount">4.812,00</span></td>
  <td><span dt="perc">-0,30</span></td>
</tr>
<tr class="other-row">
  <td><span itemprop="name">Ignored</span><span dt="bA">1,00</span></td>
</tr>
</table></body></html>`

func TestParseMarketPage_CurrencyMarkup(t *testing.T) {
	rows, err := parseMarketPage(strings.NewReader(currencyPageHTML))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Amerikan Doları", rows[0].Name)
	assert.Equal(t, "USD", rows[0].Code)
	assert.Equal(t, "41,2345", rows[0].Price)
	assert.Equal(t, "%0,12", rows[0].Percent)

	// Percent cell is optional.
	assert.Equal(t, "EUR", rows[1].Code)
	assert.Empty(t, rows[1].Percent)
}

func TestParseMarketPage_CommodityMarkup(t *testing.T) {
	rows, err := parseMarketPage(strings.NewReader(commodityPageHTML))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Gram Altın", rows[0].Name)
	assert.Equal(t, "GA", rows[0].Code)
	assert.Equal(t, "2.950,40", rows[0].Price)
	assert.Equal(t, "%1,05", rows[0].Percent)

	// Code cell is optional; the symbol gets derived from the name later.
	assert.Equal(t, "Çeyrek Altın", rows[1].Name)
	assert.Empty(t, rows[1].Code)
	assert.Equal(t, "-0,30", rows[1].Percent)
}

func TestParseMarketPage_EmptyDocument(t *testing.T) {
	rows, err := parseMarketPage(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
