package risk

// option pairs an operator-facing label with the token the classifier was
// trained on.
type option struct {
	label string
	code  string
}

var incomeTypes = [...]option{
	{"Employed", "Working"},
	{"Business owner", "Businessman"},
	{"Retired", "Pensioner"},
	{"Unemployed", "Unemployed"},
	{"Student", "Student"},
	{"Maternity leave", "Maternity leave"},
	{"Civil servant", "State servant"},
	{"Commercial staff", "Commercial associate"},
}

// "Elementary school" is mapped to "Incomplete higher" in the trained model's
// vocabulary. Kept as is until a corrected schema ships with the model.
var educationTypes = [...]option{
	{"Elementary school", "Incomplete higher"},
	{"Middle school", "Lower secondary"},
	{"High school", "Secondary / secondary special"},
	{"Bachelor's", "Higher education"},
	{"Postgraduate", "Academic degree"},
}

var genders = [...]option{
	{"Male", "M"},
	{"Female", "F"},
}

var riskLabels = map[int]struct {
	tier  RiskTier
	label string
}{
	0: {TierLow, "LOW RISK"},
	1: {TierMedium, "MEDIUM RISK"},
	2: {TierHigh, "HIGH RISK"},
	3: {TierVeryHigh, "VERY HIGH RISK"},
}

// UnknownRiskLabel is shown for any class id outside the known set.
const UnknownRiskLabel = "UNKNOWN RISK"

func lookup(table []option, label string) (string, bool) {
	for _, o := range table {
		if o.label == label {
			return o.code, true
		}
	}
	return "", false
}

func labels(table []option) []string {
	out := make([]string, len(table))
	for i, o := range table {
		out[i] = o.label
	}
	return out
}

func codes(table []option) []string {
	out := make([]string, len(table))
	for i, o := range table {
		out[i] = o.code
	}
	return out
}

// IncomeTypeCode returns the classifier token for an income-type label.
func IncomeTypeCode(label string) (string, bool) { return lookup(incomeTypes[:], label) }

// EducationCode returns the classifier token for an education label.
func EducationCode(label string) (string, bool) { return lookup(educationTypes[:], label) }

// GenderCode returns "M" or "F".
func GenderCode(label string) (string, bool) { return lookup(genders[:], label) }

// IncomeTypeOptions lists the income-type labels in display order.
func IncomeTypeOptions() []string { return labels(incomeTypes[:]) }

func EducationOptions() []string { return labels(educationTypes[:]) }

func GenderOptions() []string { return labels(genders[:]) }

// IncomeTypeCodes lists the tokens the classifier accepts for NAME_INCOME_TYPE.
func IncomeTypeCodes() []string { return codes(incomeTypes[:]) }

func EducationCodes() []string { return codes(educationTypes[:]) }

func GenderCodes() []string { return codes(genders[:]) }

// LabelFor maps a class id onto its tier and display label. It never fails.
func LabelFor(classID int) (RiskTier, string) {
	if entry, ok := riskLabels[classID]; ok {
		return entry.tier, entry.label
	}
	return TierUnknown, UnknownRiskLabel
}
