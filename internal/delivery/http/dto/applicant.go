package dto

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ScheduleInterviewRequest struct {
	InterviewTime string `json:"interview_time"`
	InterviewLink string `json:"interview_link"`
}

type GenerateReportRequest struct {
	JobID string `json:"job_id"`
	Type  string `json:"type"`
}
