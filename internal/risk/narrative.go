package risk

import (
	"strconv"
	"strings"
)

// Narrative echoes the operator's selections as one sentence, using the
// labels the operator picked rather than the classifier tokens.
func Narrative(in ApplicantInput) string {
	var b strings.Builder

	b.WriteString("Applicant with income type ")
	b.WriteString(in.IncomeType)
	b.WriteString(", highest education ")
	b.WriteString(in.EducationType)
	b.WriteString(", gender ")
	b.WriteString(in.Gender)
	b.WriteString(", monthly income ")
	b.WriteString(number(in.IncomeTotal))
	b.WriteString(", existing credit ")
	b.WriteString(number(in.Credit))
	b.WriteString(", assets worth ")
	b.WriteString(number(in.GoodsPrice))
	b.WriteString(", ")
	b.WriteString(strconv.Itoa(in.Children))
	b.WriteString(" children, ")
	b.WriteString(choose(in.OwnsCar, "owns a car", "does not own a car"))
	b.WriteString(", ")
	b.WriteString(choose(in.OwnsProperty, "owns property", "does not own property"))
	b.WriteString(", ")
	b.WriteString(choose(in.LivesInCity, "lives in the city", "does not live in the city"))
	b.WriteString(", employed for ")
	b.WriteString(strconv.Itoa(in.YearsEmployed))
	b.WriteString(" years, expected interest rate ")
	b.WriteString(number(in.InterestRate))
	b.WriteString(", aged ")
	b.WriteString(strconv.Itoa(in.Age))
	b.WriteString(", registered for ")
	b.WriteString(strconv.Itoa(in.YearsRegistered))
	b.WriteString(" years.")

	return b.String()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func choose(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
