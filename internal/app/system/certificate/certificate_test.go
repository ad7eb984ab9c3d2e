package certificate

import (
	"bytes"
	"testing"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/frequency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_WritesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Declaration{
		Institution:   "Faculdade Estácio de Goiás",
		LeagueName:    "Liga Acadêmica de Pesquisa e Inovação em Biomedicina",
		LeagueAcronym: "LAPIB",
		FullName:      "Ana Souza",
		Attendance:    &frequency.Summary{OfficialEvents: 4, AppRecorded: 3, Percentage: 75},
		Signatories:   []Signatory{{Name: "Presidente", Title: "Presidente da LAPIB"}, {Name: "Coordenação", Title: "Coordenador de Biomedicina"}},
		IssuedAt:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should start with %PDF")
	assert.Greater(t, buf.Len(), 500)
}

func TestRender_WithoutOptionalParts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Declaration{FullName: "Bruno", LeagueAcronym: "LAPIB"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestDeclaration_FileName(t *testing.T) {
	assert.Equal(t, "Declaracao_LAPIB_Ana.pdf", Declaration{FullName: "Ana Souza", LeagueAcronym: "LAPIB"}.FileName())
	assert.Equal(t, "Declaracao_LAPIB_membro.pdf", Declaration{LeagueAcronym: "LAPIB"}.FileName())
}
