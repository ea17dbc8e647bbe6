package main

import (
	"bytes"
	"testing"

	"aocbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStandings(t *testing.T) {
	alice, bob := "Alice", "Bob, Jr."
	lb := &models.Leaderboard{
		Event:   "2023",
		OwnerID: 10,
		Members: map[string]models.Member{
			"10": {ID: 10, Name: &alice, Stars: 5},
			"2":  {ID: 2, Name: &bob, Stars: 5},
			"1":  {ID: 1, Stars: 3},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeStandings(&buf, lb))
	assert.Equal(t, "event,rank,stars,id,name\n"+
		"2023,1,5,2,\"Bob, Jr.\"\n"+
		"2023,1,5,10,Alice\n"+
		"2023,3,3,1,anonymous user #1\n", buf.String())
}
