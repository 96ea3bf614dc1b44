package slack

// Export internal functions for testing
var (
	BuildDetectionMessage  = buildDetectionMessage
	BuildResolutionMessage = buildResolutionMessage
)
