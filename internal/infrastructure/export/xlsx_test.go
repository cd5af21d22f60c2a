package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
)

func sampleBuilds() []*entity.CustomConfiguration {
	return []*entity.CustomConfiguration{
		{
			ID:         "b1",
			DeviceName: "Gaming Laptop X",
			BasePrice:  800,
			TotalPrice: 1, // stale, must not be exported
			Customizations: []entity.Customization{
				{Component: "GPU", Selection: "RTX 5070", Price: 400},
				{Component: "RAM", Selection: "32GB", Price: 100},
			},
		},
		{
			DeviceName:     "Pocket One",
			DeviceType:     entity.DevicePhone,
			BasePrice:      450,
			Customizations: []entity.Customization{{Component: "RAM", Selection: "8GB"}},
		},
	}
}

func TestBuildsWorkbook(t *testing.T) {
	raw, err := BuildsWorkbook(sampleBuilds())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(buildsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Device Name", rows[0][0])
	assert.Equal(t, "Gaming Laptop X", rows[1][0])
	assert.Equal(t, "laptop", rows[1][1])
	assert.Equal(t, "1300", rows[1][3])
	assert.Equal(t, "phone", rows[2][1])

	comps, err := f.GetRows(componentsSheet)
	require.NoError(t, err)
	require.Len(t, comps, 4)
	assert.Equal(t, []string{"Gaming Laptop X", "GPU", "RTX 5070", "400"}, comps[1][:4])
	assert.Equal(t, "Pocket One", comps[3][0])
}

func TestBuildsWorkbook_Empty(t *testing.T) {
	raw, err := BuildsWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(buildsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestComparisonWorkbook(t *testing.T) {
	raw, err := ComparisonWorkbook(ComparisonTable{
		CurrentName: "A",
		OtherName:   "B",
		Lines: []ComparisonLine{
			{Label: "RAM", Current: "12GB", Other: "8GB", Different: true},
			{Label: "Storage", Current: "256GB", Other: "256GB"},
		},
		CurrentTotal: 500,
		OtherTotal:   450,
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(compareSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Component", "A", "B"}, rows[0])
	assert.Equal(t, []string{"RAM", "12GB", "8GB"}, rows[1])
	assert.Equal(t, "50", rows[4][1])

	styled, err := f.GetCellStyle(compareSheet, "A2")
	require.NoError(t, err)
	plain, err := f.GetCellStyle(compareSheet, "A3")
	require.NoError(t, err)
	assert.NotEqual(t, plain, styled)
}
