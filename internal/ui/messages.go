package ui

// DetectProgressMsg represents a progress update from the detection worker
type DetectProgressMsg struct {
	Progress float64 // 0.0 to 1.0
}

// DetectDoneMsg indicates detection has finished and the store is seeded
type DetectDoneMsg struct {
	Songs int
	Err   error
}
