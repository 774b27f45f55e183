package dashboardapimodels

import "talentflow-backend/models"

type Stats struct {
	TotalJobs            int64                           `json:"totalJobs"`
	OpenJobs             int64                           `json:"openJobs"`
	ClosedJobs           int64                           `json:"closedJobs"`
	TotalCandidates      int64                           `json:"totalCandidates"`
	CandidatesByStage    map[models.CandidateStage]int64 `json:"candidatesByStage"`
	TotalAssessments     int64                           `json:"totalAssessments"`
	CompletedAssessments int64                           `json:"completedAssessments"` // submitted responses
	CandidatesPerJob     Distribution                    `json:"candidatesPerJob"`
}

type Distribution struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	Max  float64 `json:"max"`
}
