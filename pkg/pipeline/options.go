package pipeline

// StageOption configures a stage when it is registered.
type StageOption func(s *stage)

// StageEnabled enables or disables a stage. Disabled stages stay registered but never run.
func StageEnabled(enabled bool) StageOption {
	return func(s *stage) {
		s.info.Enabled = enabled
	}
}
