// internal/workers/credit/predict-credit-risk/models.go
package predictcreditrisk

import "credit-risk-dashboard/internal/risk"

type Input struct {
	RequestID string             `json:"requestId"`
	Features  risk.FeatureRecord `json:"features"`
}

type Output struct {
	RiskClass int    `json:"riskClass"`
	RiskTier  string `json:"riskTier"`
	RiskLabel string `json:"riskLabel"`
}
