package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Absences à remplacer",
		Columns: []string{"Collaborateur", "Début", "Urgence"},
		Rows: [][]string{
			{"Dupont Marie", "2024-03-04", "URGENT"},
			{"Martin Élise", "2024-03-05", "NORMAL"},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "Collaborateur,Début,Urgence\nDupont Marie,2024-03-04,URGENT\nMartin Élise,2024-03-05,NORMAL\n", string(out))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only one"})
	_, err := RenderCSV(table)
	assert.Error(t, err)
	_, err = RenderPDF(table, nil)
	assert.Error(t, err)

	_, err = RenderCSV(Table{})
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(sampleTable(), func(row []string) bool { return row[2] == "URGENT" })
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
