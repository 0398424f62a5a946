package domain

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Rovas work-report constants. The classification and activity name identify
// programming work; the fee values implement the connector's 3% usage fee on
// a nominal 10-unit hourly labor value.
const (
	ReportClassification = 1645
	ReportActivityName   = "Programming"
	ReportPublishStatus  = 1

	FeeOwnerProjectID  = 429681
	FeeNote            = "3% usage fee, levied by the 'Rovas Connector' project"
	NominalHourlyValue = 10.0
	UsageFeeRate       = 0.03

	nonceLength = 16
	nonceChars  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ElapsedHours converts accrued seconds to report hours: rounded to two
// decimals with a floor of 0.01 so a report never carries a zero value.
func ElapsedHours(accruedSeconds int) float64 {
	hours := round2(float64(accruedSeconds) / 3600)
	if hours < 0.01 {
		return 0.01
	}
	return hours
}

// UsageFee computes the connector fee for a report of the given hours.
func UsageFee(hours float64) float64 {
	return round2(hours * NominalHourlyValue * UsageFeeRate)
}

// NonceToken returns a fresh 16-character base-36 token for a submission.
// Not cryptographically strong; the remote side only requires uniqueness
// per submission attempt.
func NonceToken() string {
	buf := make([]byte, nonceLength)
	for i := range buf {
		buf[i] = nonceChars[rand.Intn(len(nonceChars))]
	}
	return string(buf)
}

// ReportDescription builds the free-text description embedding the revision
// and its proof URL.
func ReportDescription(revision, proofURL string) string {
	return fmt.Sprintf("Commit: %s. Proof: %s", revision, proofURL)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Submission is a locally recorded outcome of a work-report submission,
// kept so the user can audit what was filed and when.
type Submission struct {
	ID        string
	Revision  string
	ProjectID string
	Hours     float64
	ReportID  int64 // 0 when the remote id was not returned
	Outcome   SubmissionOutcome
	CreatedAt time.Time
}
