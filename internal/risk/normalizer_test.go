package risk

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestApplicant() ApplicantInput {
	return ApplicantInput{
		IncomeType:      "Employed",
		EducationType:   "Bachelor's",
		Gender:          "Male",
		IncomeTotal:     5000000,
		Credit:          20000000,
		GoodsPrice:      15000000,
		Annuity:         750000,
		Children:        2,
		YearsEmployed:   6,
		InterestRate:    0.12,
		Age:             35,
		YearsRegistered: 10,
		ExtSource1:      0.5,
		ExtSource2:      0.61,
		ExtSource3:      0.42,
		OwnsCar:         true,
		OwnsProperty:    false,
		LivesInCity:     true,
	}
}

// ==========================
// Translation Tables
// ==========================

func TestNormalize_IncomeTypes(t *testing.T) {
	expected := map[string]string{
		"Employed":         "Working",
		"Business owner":   "Businessman",
		"Retired":          "Pensioner",
		"Unemployed":       "Unemployed",
		"Student":          "Student",
		"Maternity leave":  "Maternity leave",
		"Civil servant":    "State servant",
		"Commercial staff": "Commercial associate",
	}
	require.Len(t, IncomeTypeOptions(), len(expected))

	for _, label := range IncomeTypeOptions() {
		t.Run(label, func(t *testing.T) {
			in := createTestApplicant()
			in.IncomeType = label

			record, err := Normalize(in)
			require.NoError(t, err)
			assert.Equal(t, expected[label], record.IncomeType)
		})
	}
}

func TestNormalize_EducationTypes(t *testing.T) {
	expected := map[string]string{
		"Elementary school": "Incomplete higher",
		"Middle school":     "Lower secondary",
		"High school":       "Secondary / secondary special",
		"Bachelor's":        "Higher education",
		"Postgraduate":      "Academic degree",
	}
	require.Len(t, EducationOptions(), len(expected))

	for _, label := range EducationOptions() {
		t.Run(label, func(t *testing.T) {
			in := createTestApplicant()
			in.EducationType = label

			record, err := Normalize(in)
			require.NoError(t, err)
			assert.Equal(t, expected[label], record.EducationType)
		})
	}
}

func TestNormalize_Gender(t *testing.T) {
	in := createTestApplicant()

	in.Gender = "Male"
	record, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "M", record.Gender)

	in.Gender = "Female"
	record, err = Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "F", record.Gender)

	assert.Equal(t, []string{"Male", "Female"}, GenderOptions())
}

func TestNormalize_Booleans(t *testing.T) {
	for _, value := range []bool{true, false} {
		in := createTestApplicant()
		in.OwnsCar = value
		in.OwnsProperty = value
		in.LivesInCity = value

		record, err := Normalize(in)
		require.NoError(t, err)

		want := 0
		if value {
			want = 1
		}
		assert.Equal(t, want, record.OwnCar)
		assert.Equal(t, want, record.OwnRealty)
		assert.Equal(t, want, record.RegCityNotWorkCity)
	}
}

func TestNormalize_NumericPassthrough(t *testing.T) {
	in := createTestApplicant()
	record, err := Normalize(in)
	require.NoError(t, err)

	assert.Equal(t, in.Annuity, record.Annuity)
	assert.Equal(t, in.IncomeTotal, record.IncomeTotal)
	assert.Equal(t, in.Credit, record.Credit)
	assert.Equal(t, in.GoodsPrice, record.GoodsPrice)
	assert.Equal(t, in.Children, record.Children)
	assert.Equal(t, in.YearsEmployed, record.YearsEmployed)
	assert.Equal(t, in.InterestRate, record.RateOfLoan)
	assert.Equal(t, in.Age, record.AgeYears)
	assert.Equal(t, in.YearsRegistered, record.YearsRegistration)
	assert.Equal(t, in.ExtSource1, record.ExtSource1)
	assert.Equal(t, in.ExtSource2, record.ExtSource2)
	assert.Equal(t, in.ExtSource3, record.ExtSource3)
}

// ==========================
// Failures
// ==========================

func TestNormalize_UnrecognizedCategory(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *ApplicantInput)
		field  string
		value  string
	}{
		{"income type", func(in *ApplicantInput) { in.IncomeType = "Freelancer" }, FieldIncomeType, "Freelancer"},
		{"education", func(in *ApplicantInput) { in.EducationType = "PhD" }, FieldEducationType, "PhD"},
		{"gender", func(in *ApplicantInput) { in.Gender = "m" }, FieldGender, "m"},
		{"empty income type", func(in *ApplicantInput) { in.IncomeType = "" }, FieldIncomeType, ""},
		{"classifier token instead of label", func(in *ApplicantInput) { in.IncomeType = "Working" }, FieldIncomeType, "Working"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := createTestApplicant()
			tt.mutate(&in)

			record, err := Normalize(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnrecognizedCategory))
			assert.Equal(t, FeatureRecord{}, record)

			var catErr *UnrecognizedCategoryError
			require.True(t, errors.As(err, &catErr))
			assert.Equal(t, tt.field, catErr.Field)
			assert.Equal(t, tt.value, catErr.Value)
		})
	}
}

// ==========================
// Record Shape
// ==========================

func TestNormalize_Idempotent(t *testing.T) {
	in := createTestApplicant()

	first, err := Normalize(in)
	require.NoError(t, err)
	second, err := Normalizer{}.Normalize(in)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalize_Scenario(t *testing.T) {
	in := ApplicantInput{
		IncomeType:    "Employed",
		EducationType: "Bachelor's",
		Gender:        "Male",
		IncomeTotal:   5000000,
		Credit:        20000000,
		OwnsCar:       true,
		OwnsProperty:  false,
		LivesInCity:   true,
	}

	record, err := Normalize(in)
	require.NoError(t, err)

	assert.Equal(t, "Working", record.IncomeType)
	assert.Equal(t, "Higher education", record.EducationType)
	assert.Equal(t, "M", record.Gender)
	assert.Equal(t, 1, record.OwnCar)
	assert.Equal(t, 0, record.OwnRealty)
	assert.Equal(t, 1, record.RegCityNotWorkCity)
}

func TestFeatureRecord_JSONKeysMatchColumns(t *testing.T) {
	record, err := Normalize(createTestApplicant())
	require.NoError(t, err)

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Len(t, decoded, ColumnCount)
	for _, col := range Columns() {
		assert.Contains(t, decoded, col)
	}
	assert.Equal(t, "Working", decoded[ColIncomeType])
	assert.Equal(t, float64(1), decoded[ColOwnCar])
}

func TestFeatureRecord_RowFollowsColumnOrder(t *testing.T) {
	record, err := Normalize(createTestApplicant())
	require.NoError(t, err)

	data, err := json.Marshal(record)
	require.NoError(t, err)
	var byName map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &byName))

	row := record.Row()
	require.Len(t, row, ColumnCount)
	for i, col := range Columns() {
		switch v := row[i].(type) {
		case string:
			assert.Equal(t, byName[col], v, col)
		case int:
			assert.Equal(t, byName[col], float64(v), col)
		case float64:
			assert.Equal(t, byName[col], v, col)
		default:
			t.Fatalf("unexpected type %T for %s", v, col)
		}
	}
}

func TestColumns_ReturnsCopy(t *testing.T) {
	cols := Columns()
	cols[0] = "MUTATED"
	assert.Equal(t, ColIncomeType, Columns()[0])
}

func TestOptions_ReturnCopies(t *testing.T) {
	opts := IncomeTypeOptions()
	opts[0] = "MUTATED"
	code, ok := IncomeTypeCode("Employed")
	assert.True(t, ok)
	assert.Equal(t, "Working", code)
	assert.Equal(t, "Employed", IncomeTypeOptions()[0])
}
