package rovas

// WorkReportPayload is the JSON body sent to the work-report endpoint.
// Field names follow the Rovas proxy-rule contract.
type WorkReportPayload struct {
	Classification int     `json:"wr_classification"`
	Description    string  `json:"wr_description"`
	ActivityName   string  `json:"wr_activity_name"`
	Hours          float64 `json:"wr_hours"`
	WebAddress     string  `json:"wr_web_address"`
	ProjectID      string  `json:"parent_project_nid"`
	DateStarted    int64   `json:"date_started"`
	AccessToken    string  `json:"access_token"`
	PublishStatus  int     `json:"publish_status"`
}

// UsageFeePayload is the JSON body sent to the fee-charge endpoint after a
// report was created.
type UsageFeePayload struct {
	ProjectID int     `json:"project_id"`
	ReportID  int64   `json:"wr_id"`
	UsageFee  float64 `json:"usage_fee"`
	Note      string  `json:"note"`
}

// WorkReportResult is the parsed outcome of a successful report submission.
// ReportID is 0 when the response body did not carry the created id; that is
// a warning condition, not a failure.
type WorkReportResult struct {
	ReportID int64
	RawBody  string
}

// Credentials carry the per-call auth headers. Read fresh from
// configuration at each submission, never cached.
type Credentials struct {
	APIKey string
	Token  string
}
