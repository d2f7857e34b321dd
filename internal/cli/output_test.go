package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/jacksmith/storefront/internal/model"
	"github.com/stretchr/testify/assert"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	orig := ColorEnabled()
	SetColorEnabled(enabled)
	t.Cleanup(func() { SetColorEnabled(orig) })
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf), "buffers are never terminals")

	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f), "regular files are not terminals")
}

func TestColorFunctions(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		withColor(t, true)
		assert.Equal(t, colorGreen+"ok"+colorReset, Green("ok"))
		assert.Equal(t, colorRed+"x"+colorReset, Red("x"))
		assert.Equal(t, colorYellow+"!"+colorReset, Yellow("!"))
		assert.Equal(t, colorGray+"-"+colorReset, Gray("-"))
	})

	t.Run("disabled", func(t *testing.T) {
		withColor(t, false)
		assert.Equal(t, "ok", Green("ok"))
		assert.Equal(t, "x", Red("x"))
		assert.Equal(t, "!", Yellow("!"))
		assert.Equal(t, "-", Gray("-"))
	})
}

func TestDomainLabels(t *testing.T) {
	withColor(t, false)

	assert.Equal(t, "", StateLabel(model.ProductStateLinked))
	assert.Equal(t, OrphanMarker, StateLabel(model.ProductStateOrphaned))

	assert.Equal(t, "-", ImageLabel(nil))
	assert.Equal(t, "-", ImageLabel(model.StringPtr("")))
	assert.Equal(t, "file:///a.png", ImageLabel(model.StringPtr("file:///a.png")))

	p := &model.Product{Price: "50"}
	assert.Equal(t, "  50.00", Price(p, 7))
	p.Price = "market"
	assert.Equal(t, "market", Price(p, 3))
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTable().Render(&buf)
	assert.Empty(t, buf.String())
}

func TestTableColumnAlignment(t *testing.T) {
	withColor(t, false)

	tbl := NewTable("ID", "NAME", "PRODUCTS")
	tbl.AddRow("1", "Gujrati", "2")
	tbl.AddRow("4", "South Indian", "2")

	var buf bytes.Buffer
	tbl.Render(&buf)

	expected := "ID  NAME          PRODUCTS\n" +
		"1   Gujrati       2\n" +
		"4   South Indian  2\n"
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, 2, tbl.Len())
}

func TestTableWithColoredText(t *testing.T) {
	withColor(t, true)

	tbl := NewTable()
	tbl.AddRow("11", Yellow(OrphanMarker), "x")
	tbl.AddRow("2", "-", "y")

	var buf bytes.Buffer
	tbl.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	// Both rows place the last column at the same visible offset.
	assert.Equal(t, visibleWidth(lines[0])-1, visibleWidth(lines[1])-1)
}

func TestTableDropsTrailingEmptyCells(t *testing.T) {
	withColor(t, false)

	tbl := NewTable()
	tbl.AddRow("1", "Tea", "")
	tbl.AddRow("22", "Coffee", "[orphan]")

	var buf bytes.Buffer
	tbl.Render(&buf)

	assert.Equal(t, "1   Tea\n22  Coffee  [orphan]\n", buf.String())
}

func TestTableSetMaxWidth(t *testing.T) {
	withColor(t, false)

	tbl := NewTable()
	tbl.SetMaxWidth(1, 8)
	tbl.AddRow("1", "Cheez butter masala", "150.00")
	tbl.AddRow("2", "Nan", "40.00")

	var buf bytes.Buffer
	tbl.Render(&buf)

	expected := "1  Cheez...  150.00\n" +
		"2  Nan       40.00\n"
	assert.Equal(t, expected, buf.String())
}

func TestVisibleWidth(t *testing.T) {
	assert.Equal(t, 0, visibleWidth(""))
	assert.Equal(t, 5, visibleWidth("hello"))
	assert.Equal(t, 5, visibleWidth(colorRed+"hello"+colorReset))
	assert.Equal(t, 3, visibleWidth("a"+colorGray+"b"+colorReset+"c"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"Vegetarian Soup", 10, "Vegetar..."},
		{"abcdef", 3, "abc"},
		{"abcdef", 1, "a"},
		{"abcdef", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.max), "Truncate(%q, %d)", tt.in, tt.max)
	}
}

func TestTruncateWithANSI(t *testing.T) {
	in := colorYellow + "Cauliflower Tacos" + colorReset
	got := Truncate(in, 8)

	assert.Equal(t, 8, visibleWidth(got))
	assert.True(t, strings.HasPrefix(got, colorYellow+"Cauli..."))
	assert.True(t, strings.HasSuffix(got, colorReset))

	short := colorGreen + "ok" + colorReset
	assert.Equal(t, short, Truncate(short, 5))
}
