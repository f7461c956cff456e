package normalizeapplicant

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "credit-risk-dashboard/internal/common/errors"
	"credit-risk-dashboard/internal/common/logger"
	"credit-risk-dashboard/internal/risk"
	"credit-risk-dashboard/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(t *testing.T) *Config {
	t.Helper()
	reg, err := registry.LoadRegistry(filepath.Join("..", "..", "..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	cfg, err := LoadConfig(reg)
	require.NoError(t, err)
	return cfg
}

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(createTestConfig(t), logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

func createTestInput() *Input {
	return &Input{
		RequestID: "req-123",
		Applicant: risk.ApplicantInput{
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
			LivesInCity:     true,
		},
	}
}

func toVariables(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.StandardError {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// Config
// ==========================

func TestLoadConfig(t *testing.T) {
	cfg := createTestConfig(t)

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.InputSchema)
}

func TestLoadConfig_UnregisteredTaskType(t *testing.T) {
	_, err := LoadConfig(&registry.ActivityRegistry{})
	assert.True(t, errors.Is(err, registry.ErrActivityNotFound))
}

func TestNewHandler_BadSchema(t *testing.T) {
	_, err := NewHandler(&Config{
		Timeout:     time.Second,
		InputSchema: map[string]interface{}{"type": 7},
	}, logger.NewNoOpLogger())
	assert.Error(t, err)
}

// ==========================
// Execute
// ==========================

func TestExecute_Success(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.Equal(t, "Working", out.Features.IncomeType)
	assert.Equal(t, "Higher education", out.Features.EducationType)
	assert.Equal(t, "M", out.Features.Gender)
	assert.Equal(t, 1, out.Features.OwnCar)
	assert.Equal(t, 0, out.Features.OwnRealty)
	assert.Equal(t, 1, out.Features.RegCityNotWorkCity)
	assert.Equal(t, 0.12, out.Features.RateOfLoan)
	assert.Contains(t, out.Narrative, "income type Employed")
}

func TestExecute_UnrecognizedCategory(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
		field  string
	}{
		{"income type", func(in *Input) { in.Applicant.IncomeType = "Freelancer" }, risk.FieldIncomeType},
		{"education", func(in *Input) { in.Applicant.EducationType = "PhD" }, risk.FieldEducationType},
		{"gender", func(in *Input) { in.Applicant.Gender = "" }, risk.FieldGender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)
			input := createTestInput()
			tt.mutate(input)

			out, err := h.Execute(context.Background(), input)
			assert.Nil(t, out)

			stdErr := requireCode(t, err, apperrors.ErrCodeUnrecognizedCategory)
			assert.Equal(t, tt.field, stdErr.Metadata["field"])
			assert.True(t, errors.Is(err, risk.ErrUnrecognizedCategory))
			assert.False(t, apperrors.IsTechnical(stdErr.Code))
		})
	}
}

// ==========================
// Input parsing
// ==========================

func TestParseInput_Valid(t *testing.T) {
	h := createTestHandler(t)

	input, err := h.parseInput(toVariables(t, createTestInput()))
	require.NoError(t, err)
	assert.Equal(t, "req-123", input.RequestID)
	assert.Equal(t, "Employed", input.Applicant.IncomeType)
}

func TestParseInput_NotJSON(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.parseInput(`{"applicant":`)
	requireCode(t, err, apperrors.ErrCodeInputParseFailed)
}

func TestParseInput_SchemaViolations(t *testing.T) {
	tests := []struct {
		name      string
		variables func(t *testing.T) string
		detail    string
	}{
		{
			name: "missing applicant",
			variables: func(t *testing.T) string {
				return `{"requestId":"req-1"}`
			},
			detail: "applicant",
		},
		{
			name: "missing gender",
			variables: func(t *testing.T) string {
				vars := map[string]interface{}{}
				require.NoError(t, json.Unmarshal([]byte(toVariables(t, createTestInput())), &vars))
				delete(vars["applicant"].(map[string]interface{}), "gender")
				return toVariables(t, vars)
			},
			detail: "applicant.gender",
		},
		{
			name: "negative income",
			variables: func(t *testing.T) string {
				in := createTestInput()
				in.Applicant.IncomeTotal = -1
				return toVariables(t, in)
			},
			detail: "applicant.incomeTotal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t)

			_, err := h.parseInput(tt.variables(t))
			stdErr := requireCode(t, err, apperrors.ErrCodeApplicantValidationFailed)
			assert.Contains(t, stdErr.Details, tt.detail)
		})
	}
}
