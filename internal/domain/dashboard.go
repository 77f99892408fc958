package domain

import "time"

type DashboardStats struct {
	TotalJobs       int            `json:"total_jobs"`
	OpenJobs        int            `json:"open_jobs"`
	TotalApplicants int            `json:"total_applicants"`
	Shortlisted     int            `json:"shortlisted"`
	AverageScore    float64        `json:"average_score"`
	ByStatus        map[string]int `json:"by_status"`
	DatabaseHealthy bool           `json:"database_healthy"`
	CacheHealthy    bool           `json:"cache_healthy"`
	ServerTime      time.Time      `json:"server_time"`
}
