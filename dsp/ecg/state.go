package ecg

// CycleState carries the beat counters from one synthesis call to the next.
// It is owned by the caller; concurrent synthesis calls must not share one.
type CycleState struct {
	RCycle        int `json:"r_cycle"`
	PCycle        int `json:"p_cycle"`
	Beats         int `json:"beats"`
	CustomIndex   int `json:"custom_index"`
	WaitingNormal int `json:"waiting_normal"`
}

// Reset zeroes every counter.
func (s *CycleState) Reset() {
	*s = CycleState{}
}
