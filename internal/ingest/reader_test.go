package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

const sampleHeader = "Part no;Descripcion;Familia;Stock balance;On Order;Back Order Customer;Repurchase Price;Sales Current Period;Sales P-3;Importe"

func TestReadInventory(t *testing.T) {
	input := strings.Join([]string{
		sampleHeader,
		"A-1;Widget;3;5;0;0;50;10;8;500",
		"B-2;Gadget;11;2;1;0;25;4;6;120",
	}, "\n")

	ds, err := ReadInventory(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, ds.Rows, 2)
	require.Equal(t, ColDescription, ds.Columns[1])
	require.Equal(t, ColFamily, ds.Columns[2])
	require.True(t, ds.HasColumn(ColAmount), "Importe resolves to Amount")
	require.Equal(t, []string{"Sales Current Period", "Sales P-3"}, ds.SalesColumns())

	require.Equal(t, "A-1", ds.Rows[0][ColPartNo])
	require.Equal(t, "Widget", ds.Rows[0][ColDescription])
	require.Equal(t, "500", ds.Rows[0][ColAmount])
}

func TestReadInventoryHeaderAliases(t *testing.T) {
	input := strings.Join([]string{
		"Part no;Desc;Fam; Stock_balance ;On Order;Back Order Customer;Repurchase Price",
		"A-1;Widget;3;5;0;0;50",
	}, "\n")

	ds, err := ReadInventory(strings.NewReader(input))
	require.NoError(t, err)
	require.True(t, ds.HasColumn(ColStockBalance))
	require.Equal(t, "5", ds.Rows[0][ColStockBalance])
}

func TestReadInventoryDuplicateColumnsKeepFirst(t *testing.T) {
	// both headers canonicalize to "Stock balance"; the first wins
	input := strings.Join([]string{
		"Part no;Desc;Fam;Stock balance;On Order;Back Order Customer;Repurchase Price;Balance",
		"A-1;Widget;3;5;0;0;50;9",
	}, "\n")

	ds, err := ReadInventory(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "5", ds.Rows[0][ColStockBalance])
}

func TestReadInventoryMissingColumn(t *testing.T) {
	input := "Part no;Desc;Fam;Stock balance;On Order;Back Order Customer\nA-1;Widget;3;5;0;0\n"

	_, err := ReadInventory(strings.NewReader(input))
	require.ErrorIs(t, err, ErrMissingColumn)
	require.ErrorContains(t, err, ColRepurchasePrice)
}

func TestReadInventoryDropsShortRows(t *testing.T) {
	input := strings.Join([]string{
		sampleHeader,
		"A-1;Widget;3;5;0;0;50;10;8;500",
		"BROKEN;row",
		"B-2;Gadget;11;2;1;0;25;4;6;120",
	}, "\n")

	ds, err := ReadInventory(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	require.Equal(t, "B-2", ds.Rows[1][ColPartNo])
}

func TestReadInventoryEmptyInput(t *testing.T) {
	_, err := ReadInventory(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadInventoryTrimsCells(t *testing.T) {
	input := strings.Join([]string{
		sampleHeader,
		" A-1 ; Widget ;3; 5 ;0;0;50;10;8;500",
	}, "\n")

	ds, err := ReadInventory(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "A-1", ds.Rows[0][ColPartNo])
	require.Equal(t, "Widget", ds.Rows[0][ColDescription])
	require.Equal(t, "5", ds.Rows[0][ColStockBalance])
}

func TestDecodeToUTF8(t *testing.T) {
	// ISO-8859-1 bytes for "Árbol de levas sobre pedido"
	raw := append([]byte{0xC1}, []byte("rbol de levas sobre pedido")...)

	decoded, encoding := decodeToUTF8(raw)
	require.True(t, utf8.Valid(decoded))
	require.NotEmpty(t, encoding)

	utf8Input := []byte("Árbol de levas")
	decoded, _ = decodeToUTF8(utf8Input)
	require.Equal(t, "Árbol de levas", string(decoded))
}
