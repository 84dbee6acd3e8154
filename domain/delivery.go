package domain

// DeliveryResult reports the outcome of one fan-out call so that callers
// (outbox, domain handlers) can make informed decisions instead of
// assuming success. Zero deliveries is a valid outcome, not an error:
// live delivery is best effort by contract.
type DeliveryResult struct {
	Delivered int
	Failed    int
}

// Add merges another result into this one.
func (r DeliveryResult) Add(other DeliveryResult) DeliveryResult {
	return DeliveryResult{
		Delivered: r.Delivered + other.Delivered,
		Failed:    r.Failed + other.Failed,
	}
}
