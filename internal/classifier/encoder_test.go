package classifier

import (
	"errors"
	"testing"

	"credit-risk-dashboard/internal/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecord(t *testing.T) risk.FeatureRecord {
	t.Helper()
	record, err := risk.Normalize(risk.ApplicantInput{
		IncomeType:      "Employed",
		EducationType:   "Bachelor's",
		Gender:          "Male",
		IncomeTotal:     5000000,
		Credit:          20000000,
		GoodsPrice:      15000000,
		Annuity:         750000,
		Children:        2,
		YearsEmployed:   6,
		InterestRate:    0.5,
		Age:             35,
		YearsRegistered: 10,
		ExtSource1:      0.25,
		ExtSource2:      0.5,
		ExtSource3:      0.75,
		OwnsCar:         true,
		LivesInCity:     true,
	})
	require.NoError(t, err)
	return record
}

func TestEncoder_Encode(t *testing.T) {
	enc := NewEncoder(createTestMetadata())

	data, err := enc.Encode([]risk.FeatureRecord{createTestRecord(t)})
	require.NoError(t, err)
	require.Len(t, data, risk.ColumnCount)

	want := []float32{
		7,        // NAME_INCOME_TYPE Working
		750000,   // AMT_ANNUITY
		1,        // NAME_EDUCATION_TYPE Higher education
		5000000,  // AMT_INCOME_TOTAL
		20000000, // AMT_CREDIT
		1,        // CODE_GENDER M
		15000000, // AMT_GOODS_PRICE
		2,        // CNT_CHILDREN
		1,        // FLAG_OWN_CAR
		0,        // FLAG_OWN_REALTY
		1,        // REG_CITY_NOT_WORK_CITY
		6,        // YEARS_EMPLOYED
		0.5,      // RATE_OF_LOAN
		35,       // AGE_YEARS
		10,       // YEARS_REGISTRATION
		0.25,     // EXT_SOURCE_1
		0.5,      // EXT_SOURCE_2
		0.75,     // EXT_SOURCE_3
	}
	assert.Equal(t, want, data)
}

func TestEncoder_MultipleRowsAreRowMajor(t *testing.T) {
	enc := NewEncoder(createTestMetadata())
	first := createTestRecord(t)
	second := first
	second.Gender = "F"
	second.Children = 0

	data, err := enc.Encode([]risk.FeatureRecord{first, second})
	require.NoError(t, err)
	require.Len(t, data, 2*risk.ColumnCount)

	assert.Equal(t, float32(1), data[5])
	assert.Equal(t, float32(0), data[risk.ColumnCount+5])
	assert.Equal(t, float32(2), data[7])
	assert.Equal(t, float32(0), data[risk.ColumnCount+7])
}

func TestEncoder_UnknownToken(t *testing.T) {
	enc := NewEncoder(createTestMetadata())
	record := createTestRecord(t)
	record.IncomeType = "Astronaut"

	_, err := enc.Encode([]risk.FeatureRecord{record})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownToken))
	assert.Contains(t, err.Error(), "NAME_INCOME_TYPE")
}

func TestEncoder_Empty(t *testing.T) {
	data, err := NewEncoder(createTestMetadata()).Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}
