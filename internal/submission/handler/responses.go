package handler

import (
	"kyckaro/internal/submission/models"
)

// adminSubmissionResponse is the full-detail row the review dashboard
// renders: the stored fields plus the derived presentational mappings, which
// are computed per render and never stored.
type adminSubmissionResponse struct {
	*models.Submission
	StatusCategory    models.Category `json:"status_category"`
	RiskBand          models.RiskBand `json:"risk_band"`
	FraudScoreDisplay string          `json:"fraud_score_display"`
}

func toAdminResponse(s *models.Submission) adminSubmissionResponse {
	return adminSubmissionResponse{
		Submission:        s,
		StatusCategory:    s.Status.Category(),
		RiskBand:          s.AIScores.RiskBand(),
		FraudScoreDisplay: s.AIScores.FraudScoreDisplay(),
	}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type createSubmissionRequest struct {
	Email          string `json:"email"`
	IDImageRef     string `json:"id_image_ref"`
	SelfieImageRef string `json:"selfie_image_ref"`
}

type landingResponse struct {
	Landing string `json:"landing"`
}
