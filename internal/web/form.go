package web

import (
	"errors"
	"fmt"

	"credit-risk-dashboard/internal/risk"

	"github.com/go-playground/validator/v10"
)

// applicantForm is the bound POST body. The input widgets already restrict
// values; binding enforces the same bounds server-side.
type applicantForm struct {
	IncomeType    string `form:"income_type" binding:"required"`
	EducationType string `form:"education_type" binding:"required"`
	Gender        string `form:"gender" binding:"required"`

	IncomeTotal     float64 `form:"income_total" binding:"gte=0"`
	Credit          float64 `form:"credit" binding:"gte=0"`
	GoodsPrice      float64 `form:"goods_price" binding:"gte=0"`
	Annuity         float64 `form:"annuity" binding:"gte=0"`
	Children        int     `form:"children" binding:"gte=0"`
	YearsEmployed   int     `form:"years_employed" binding:"gte=0"`
	InterestRate    float64 `form:"interest_rate" binding:"gte=0"`
	Age             int     `form:"age" binding:"gte=0"`
	YearsRegistered int     `form:"years_registered" binding:"gte=0"`
	ExtSource1      float64 `form:"ext_source_1" binding:"gte=0"`
	ExtSource2      float64 `form:"ext_source_2" binding:"gte=0"`
	ExtSource3      float64 `form:"ext_source_3" binding:"gte=0"`

	OwnsCar      bool `form:"owns_car"`
	OwnsProperty bool `form:"owns_property"`
	LivesInCity  bool `form:"lives_in_city"`
}

func (f applicantForm) toInput() risk.ApplicantInput {
	return risk.ApplicantInput{
		IncomeType:      f.IncomeType,
		EducationType:   f.EducationType,
		Gender:          f.Gender,
		IncomeTotal:     f.IncomeTotal,
		Credit:          f.Credit,
		GoodsPrice:      f.GoodsPrice,
		Annuity:         f.Annuity,
		Children:        f.Children,
		YearsEmployed:   f.YearsEmployed,
		InterestRate:    f.InterestRate,
		Age:             f.Age,
		YearsRegistered: f.YearsRegistered,
		ExtSource1:      f.ExtSource1,
		ExtSource2:      f.ExtSource2,
		ExtSource3:      f.ExtSource3,
		OwnsCar:         f.OwnsCar,
		OwnsProperty:    f.OwnsProperty,
		LivesInCity:     f.LivesInCity,
	}
}

var fieldLabels = map[string]string{
	"IncomeType":      "Income type",
	"EducationType":   "Education",
	"Gender":          "Gender",
	"IncomeTotal":     "Monthly income",
	"Credit":          "Credit amount",
	"GoodsPrice":      "Asset value",
	"Annuity":         "Mandatory instalment",
	"Children":        "Number of children",
	"YearsEmployed":   "Years employed",
	"InterestRate":    "Interest rate",
	"Age":             "Age",
	"YearsRegistered": "Years registered",
	"ExtSource1":      "Status score 1",
	"ExtSource2":      "Status score 2",
	"ExtSource3":      "Status score 3",
}

// bindingMessages turns a binding error into operator-readable lines.
func bindingMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("Could not read the form: %v", err)}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required.", label))
		case "gte":
			out = append(out, fmt.Sprintf("%s must be %s or greater.", label, fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid.", label))
		}
	}
	return out
}

// formView is the data the page template renders.
type formView struct {
	IncomeTypes []string
	Educations  []string
	Genders     []string

	Values    applicantForm
	Errors    []string
	Narrative string
	Label     string
	Tier      string
	RequestID string
}

func newFormView(values applicantForm, requestID string) formView {
	return formView{
		IncomeTypes: risk.IncomeTypeOptions(),
		Educations:  risk.EducationOptions(),
		Genders:     risk.GenderOptions(),
		Values:      values,
		RequestID:   requestID,
	}
}
