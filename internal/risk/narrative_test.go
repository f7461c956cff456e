package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNarrative(t *testing.T) {
	got := Narrative(createTestApplicant())

	assert.Equal(t,
		"Applicant with income type Employed, highest education Bachelor's, gender Male, "+
			"monthly income 5000000, existing credit 20000000, assets worth 15000000, 2 children, "+
			"owns a car, does not own property, lives in the city, employed for 6 years, "+
			"expected interest rate 0.12, aged 35, registered for 10 years.",
		got)
}

func TestNarrative_NegatedFlags(t *testing.T) {
	in := createTestApplicant()
	in.OwnsCar = false
	in.OwnsProperty = true
	in.LivesInCity = false

	got := Narrative(in)
	assert.Contains(t, got, "does not own a car")
	assert.Contains(t, got, "owns property")
	assert.Contains(t, got, "does not live in the city")
}
