package risk

// Field names reported in UnrecognizedCategoryError.
const (
	FieldIncomeType    = "incomeType"
	FieldEducationType = "educationType"
	FieldGender        = "gender"
)

// Normalizer converts operator selections into a FeatureRecord. The zero
// value is ready to use.
type Normalizer struct{}

// Normalize is Normalizer{}.Normalize.
func Normalize(in ApplicantInput) (FeatureRecord, error) {
	return Normalizer{}.Normalize(in)
}

// Normalize translates the categorical selections through the fixed tables,
// turns booleans into 1/0 and passes numbers through unchanged. A selection
// outside its table fails with an *UnrecognizedCategoryError.
func (Normalizer) Normalize(in ApplicantInput) (FeatureRecord, error) {
	incomeType, ok := IncomeTypeCode(in.IncomeType)
	if !ok {
		return FeatureRecord{}, &UnrecognizedCategoryError{Field: FieldIncomeType, Value: in.IncomeType}
	}
	education, ok := EducationCode(in.EducationType)
	if !ok {
		return FeatureRecord{}, &UnrecognizedCategoryError{Field: FieldEducationType, Value: in.EducationType}
	}
	gender, ok := GenderCode(in.Gender)
	if !ok {
		return FeatureRecord{}, &UnrecognizedCategoryError{Field: FieldGender, Value: in.Gender}
	}

	return FeatureRecord{
		IncomeType:         incomeType,
		Annuity:            in.Annuity,
		EducationType:      education,
		IncomeTotal:        in.IncomeTotal,
		Credit:             in.Credit,
		Gender:             gender,
		GoodsPrice:         in.GoodsPrice,
		Children:           in.Children,
		OwnCar:             flag(in.OwnsCar),
		OwnRealty:          flag(in.OwnsProperty),
		RegCityNotWorkCity: flag(in.LivesInCity),
		YearsEmployed:      in.YearsEmployed,
		RateOfLoan:         in.InterestRate,
		AgeYears:           in.Age,
		YearsRegistration:  in.YearsRegistered,
		ExtSource1:         in.ExtSource1,
		ExtSource2:         in.ExtSource2,
		ExtSource3:         in.ExtSource3,
	}, nil
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
