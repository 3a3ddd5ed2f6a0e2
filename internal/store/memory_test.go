package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/risk-cli/internal/model"
)

func TestMemory_ReplaceSwapsContents(t *testing.T) {
	m := NewMemory()
	assert.True(t, m.Empty())

	first := []model.HistoricalRecord{
		{Weather: "rainy", RoadCondition: "poor", Time: "08:00"},
		{Weather: "clear", RoadCondition: "good", Time: "12:00"},
	}
	m.Replace(first)
	assert.Equal(t, 2, m.Len())
	assert.False(t, m.Empty())

	second := []model.HistoricalRecord{
		{Weather: "snowy", RoadCondition: "moderate", Time: "22:00"},
	}
	m.Replace(second)
	require.Equal(t, 1, m.Len())
	assert.Equal(t, "snowy", m.Records()[0].Weather)
}

func TestMemory_RecordsReturnsCopy(t *testing.T) {
	m := NewMemory()
	m.Replace([]model.HistoricalRecord{
		{Weather: "rainy", RoadCondition: "poor", Time: "08:00"},
	})

	got := m.Records()
	got[0].Weather = "mutated"

	assert.Equal(t, "rainy", m.Records()[0].Weather)
}

func TestMemory_PreservesInsertionOrder(t *testing.T) {
	m := NewMemory()
	records := []model.HistoricalRecord{
		{Weather: "rainy", RoadCondition: "poor", Time: "08:00"},
		{Weather: "clear", RoadCondition: "good", Time: "12:00"},
		{Weather: "foggy", RoadCondition: "moderate", Time: "19:00"},
	}
	m.Replace(records)
	assert.Equal(t, records, m.Records())
}
