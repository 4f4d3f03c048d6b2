package guide

// programme を採用しなかった理由
type SkipReason string

const (
	SkipChannelMismatch    = SkipReason("channel_mismatch")
	SkipMissingTime        = SkipReason("missing_time")
	SkipMalformedTimestamp = SkipReason("malformed_timestamp")
	SkipOutOfWindow        = SkipReason("out_of_window")
	SkipInvalidRange       = SkipReason("invalid_range")
)

func (s SkipReason) String() string {
	return string(s)
}
