package committee

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRosterMapsColumnsByHeader(t *testing.T) {
	csv := "Name,Email,Designation,Student ID,Quote\n" +
		"Ayesha Rahman,ayesha@cseku.ac.bd,President,190101,Keep building\n" +
		"Tanvir Hasan,tanvir@cseku.ac.bd,Treasurer,190214,\n"

	rows, err := ParseRoster(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ayesha Rahman", rows[0].Name)
	assert.Equal(t, "ayesha@cseku.ac.bd", rows[0].Email)
	assert.Equal(t, "President", rows[0].Designation)
	assert.Equal(t, "190101", rows[0].StudentID)
	assert.Equal(t, "Keep building", rows[0].Quote)
	assert.Equal(t, "Treasurer", rows[1].Designation)
}

func TestParseRosterIsCaseInsensitiveAndStripsBOM(t *testing.T) {
	csv := "\ufeffDESIGNATION,name,EMAIL\nGeneral Secretary,Nusrat Jahan,nusrat@cseku.ac.bd\n"

	rows, err := ParseRoster(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "General Secretary", rows[0].Designation)
	assert.Equal(t, "nusrat@cseku.ac.bd", rows[0].Email)
}

func TestParseRosterIgnoresUnknownColumns(t *testing.T) {
	csv := "Designation,Name,Email,Blood Group\nMember,Rafi Islam,rafi@cseku.ac.bd,O+\n"

	rows, err := ParseRoster(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Member", rows[0].Designation)
}

func TestParseRosterRejectsMissingRequiredColumn(t *testing.T) {
	csv := "Name,Email\nRafi Islam,rafi@cseku.ac.bd\n"

	_, err := ParseRoster(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "designation")
}

func TestParseRosterRejectsEmptyFile(t *testing.T) {
	_, err := ParseRoster(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseRosterToleratesRaggedRows(t *testing.T) {
	csv := "Designation,Name,Email,Quote\nMember,Rafi Islam,rafi@cseku.ac.bd\n"

	rows, err := ParseRoster(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Quote)
}
