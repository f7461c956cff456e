// Package risk turns operator selections into the classifier's feature
// record and maps the classifier's class id onto a risk tier.
package risk

// ApplicantInput is one form submission. It lives for a single request.
type ApplicantInput struct {
	IncomeType    string `json:"incomeType"`
	EducationType string `json:"educationType"`
	Gender        string `json:"gender"`

	IncomeTotal     float64 `json:"incomeTotal"`
	Credit          float64 `json:"credit"`
	GoodsPrice      float64 `json:"goodsPrice"`
	Annuity         float64 `json:"annuity"`
	Children        int     `json:"children"`
	YearsEmployed   int     `json:"yearsEmployed"`
	InterestRate    float64 `json:"interestRate"`
	Age             int     `json:"age"`
	YearsRegistered int     `json:"yearsRegistered"`
	ExtSource1      float64 `json:"extSource1"`
	ExtSource2      float64 `json:"extSource2"`
	ExtSource3      float64 `json:"extSource3"`

	OwnsCar      bool `json:"ownsCar"`
	OwnsProperty bool `json:"ownsProperty"`
	LivesInCity  bool `json:"livesInCity"`
}

// FeatureRecord is the classifier's input row. Field order matches the
// training column order and the JSON keys are the column names.
type FeatureRecord struct {
	IncomeType         string  `json:"NAME_INCOME_TYPE"`
	Annuity            float64 `json:"AMT_ANNUITY"`
	EducationType      string  `json:"NAME_EDUCATION_TYPE"`
	IncomeTotal        float64 `json:"AMT_INCOME_TOTAL"`
	Credit             float64 `json:"AMT_CREDIT"`
	Gender             string  `json:"CODE_GENDER"`
	GoodsPrice         float64 `json:"AMT_GOODS_PRICE"`
	Children           int     `json:"CNT_CHILDREN"`
	OwnCar             int     `json:"FLAG_OWN_CAR"`
	OwnRealty          int     `json:"FLAG_OWN_REALTY"`
	RegCityNotWorkCity int     `json:"REG_CITY_NOT_WORK_CITY"`
	YearsEmployed      int     `json:"YEARS_EMPLOYED"`
	RateOfLoan         float64 `json:"RATE_OF_LOAN"`
	AgeYears           int     `json:"AGE_YEARS"`
	YearsRegistration  int     `json:"YEARS_REGISTRATION"`
	ExtSource1         float64 `json:"EXT_SOURCE_1"`
	ExtSource2         float64 `json:"EXT_SOURCE_2"`
	ExtSource3         float64 `json:"EXT_SOURCE_3"`
}

const (
	ColIncomeType         = "NAME_INCOME_TYPE"
	ColAnnuity            = "AMT_ANNUITY"
	ColEducationType      = "NAME_EDUCATION_TYPE"
	ColIncomeTotal        = "AMT_INCOME_TOTAL"
	ColCredit             = "AMT_CREDIT"
	ColGender             = "CODE_GENDER"
	ColGoodsPrice         = "AMT_GOODS_PRICE"
	ColChildren           = "CNT_CHILDREN"
	ColOwnCar             = "FLAG_OWN_CAR"
	ColOwnRealty          = "FLAG_OWN_REALTY"
	ColRegCityNotWorkCity = "REG_CITY_NOT_WORK_CITY"
	ColYearsEmployed      = "YEARS_EMPLOYED"
	ColRateOfLoan         = "RATE_OF_LOAN"
	ColAgeYears           = "AGE_YEARS"
	ColYearsRegistration  = "YEARS_REGISTRATION"
	ColExtSource1         = "EXT_SOURCE_1"
	ColExtSource2         = "EXT_SOURCE_2"
	ColExtSource3         = "EXT_SOURCE_3"
)

var columns = [...]string{
	ColIncomeType,
	ColAnnuity,
	ColEducationType,
	ColIncomeTotal,
	ColCredit,
	ColGender,
	ColGoodsPrice,
	ColChildren,
	ColOwnCar,
	ColOwnRealty,
	ColRegCityNotWorkCity,
	ColYearsEmployed,
	ColRateOfLoan,
	ColAgeYears,
	ColYearsRegistration,
	ColExtSource1,
	ColExtSource2,
	ColExtSource3,
}

// ColumnCount is the width of a feature row.
const ColumnCount = len(columns)

// Columns returns the column names in training order.
func Columns() []string {
	out := make([]string, ColumnCount)
	copy(out, columns[:])
	return out
}

// Row returns the record's values in column order. Categorical columns are
// strings, the rest are float64 or int.
func (r FeatureRecord) Row() []interface{} {
	return []interface{}{
		r.IncomeType,
		r.Annuity,
		r.EducationType,
		r.IncomeTotal,
		r.Credit,
		r.Gender,
		r.GoodsPrice,
		r.Children,
		r.OwnCar,
		r.OwnRealty,
		r.RegCityNotWorkCity,
		r.YearsEmployed,
		r.RateOfLoan,
		r.AgeYears,
		r.YearsRegistration,
		r.ExtSource1,
		r.ExtSource2,
		r.ExtSource3,
	}
}

// RiskTier is the ordinal risk category behind a class id.
type RiskTier int

const (
	TierUnknown RiskTier = iota - 1
	TierLow
	TierMedium
	TierHigh
	TierVeryHigh
)

func (t RiskTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierVeryHigh:
		return "very_high"
	default:
		return "unknown"
	}
}

// PredictionResult is the outcome of one dispatch.
type PredictionResult struct {
	ClassID int      `json:"classId"`
	Tier    RiskTier `json:"-"`
	Label   string   `json:"label"`
}
