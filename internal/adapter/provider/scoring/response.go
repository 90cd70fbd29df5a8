package scoring

import "github.com/peerxp/peerxp-backend/internal/domain"

type apiRequest struct {
	SubmissionID string `json:"submission_id"`
	URL          string `json:"url"`
	Platform     string `json:"platform"`
	FetchContent bool   `json:"fetch_content"`
}

type apiResponse struct {
	TaskTypes        []string `json:"task_types"`
	BaseXp           int      `json:"base_xp"`
	OriginalityScore float64  `json:"originality_score"`
	QualityScore     float64  `json:"quality_score"`
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning"`
}

func (r apiResponse) toDomain() domain.EvaluationResult {
	return domain.EvaluationResult{
		TaskTypes:        r.TaskTypes,
		BaseXp:           r.BaseXp,
		OriginalityScore: r.OriginalityScore,
		QualityScore:     r.QualityScore,
		Confidence:       r.Confidence,
		Reasoning:        r.Reasoning,
	}
}
