// pkg/viewmodel/verification.go
package viewmodel

import (
	"github.com/Tanmoy095/PharmaTrace/pkg/format"
	r "github.com/Tanmoy095/PharmaTrace/pkg/resolver"
)

// NormalizedVerification is the result of a batch authenticity lookup. The
// chain fields are shown as the backend reports them.
type NormalizedVerification struct {
	Verified         bool             `json:"verified"`
	Batch            *NormalizedBatch `json:"batch"`
	TransactionHash  string           `json:"transactionHash"`
	BlockNumber      int64            `json:"blockNumber"`
	Timestamp        string           `json:"timestamp"`
	TimestampDisplay string           `json:"timestampDisplay"`
}

func NormalizeVerification(raw r.Record, opts Options) NormalizedVerification {
	f := verificationFields
	ts := second(f.Timestamp.Time(raw))
	out := NormalizedVerification{
		Verified:         f.Verified.Bool(raw, false),
		TransactionHash:  f.TransactionHash.String(raw, format.NotAvailable),
		BlockNumber:      f.BlockNumber.Int(raw, 0),
		Timestamp:        format.ISO(ts),
		TimestampDisplay: format.DateTime(ts),
	}
	if b := f.Batch.Object(raw); b != nil {
		nb := NormalizeBatch(b, opts)
		out.Batch = &nb
	}
	return out
}
