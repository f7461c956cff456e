// internal/workers/credit/normalize-applicant/models.go
package normalizeapplicant

import "credit-risk-dashboard/internal/risk"

type Input struct {
	RequestID string              `json:"requestId"`
	Applicant risk.ApplicantInput `json:"applicant"`
}

type Output struct {
	Features  risk.FeatureRecord `json:"features"`
	Narrative string             `json:"narrative"`
}
